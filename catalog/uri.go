package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

var (
	schemePattern      = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*$`)
	placeholderPattern = regexp.MustCompile(`\{\{[^}]*\}\}`)
)

// endpointURI is a raw endpoint URI split into its parts. Path values are
// kept as written; only query values are decoded.
type endpointURI struct {
	raw       string
	scheme    string
	rest      string // everything after "scheme:"
	path      string // rest without query
	query     string
	authority string // set when rest starts with "//"
}

// parseEndpointURI checks uri for well-formedness and splits it.
func parseEndpointURI(uri string) (*endpointURI, error) {
	uri = strings.TrimSpace(uri)
	if strings.HasPrefix(uri, "{{") {
		return nil, ErrIncapable
	}
	i := strings.IndexByte(uri, ':')
	if i <= 0 {
		return nil, fmt.Errorf("%w: missing scheme", ErrUnknownComponent)
	}
	u := &endpointURI{raw: uri, scheme: uri[:i], rest: uri[i+1:]}
	if !schemePattern.MatchString(u.scheme) {
		return nil, fmt.Errorf("%w: illegal character in scheme name", ErrSyntax)
	}
	var hasQuery bool
	u.path, u.query, hasQuery = strings.Cut(u.rest, "?")
	if strings.HasPrefix(u.path, "//") {
		u.authority, _, _ = strings.Cut(u.path[2:], "/")
		host, err := asciiHost(u.authority)
		if err != nil {
			return nil, err
		}
		if host != u.authority {
			u.path = "//" + host + u.path[2+len(u.authority):]
			u.authority = host
			u.rest = u.path
			if hasQuery {
				u.rest += "?" + u.query
			}
		}
	}
	check := encodeUnsafe(placeholderPattern.ReplaceAllString(u.scheme+":"+u.rest, "0"))
	if _, err := url.Parse(check); err != nil {
		msg := err.Error()
		var ue *url.Error
		if errors.As(err, &ue) {
			msg = ue.Err.Error()
		}
		return nil, fmt.Errorf("%w: %s", ErrSyntax, msg)
	}
	return u, nil
}

// asciiHost converts an internationalised host in authority to its
// punycode form. ASCII hosts are returned unchanged.
func asciiHost(authority string) (string, error) {
	userinfo, hostport := "", authority
	if at := strings.LastIndexByte(authority, '@'); at >= 0 {
		userinfo, hostport = authority[:at+1], authority[at+1:]
	}
	host, port := hostport, ""
	if c := strings.LastIndexByte(hostport, ':'); c >= 0 && !strings.HasPrefix(hostport, "[") {
		host, port = hostport[:c], hostport[c:]
	}
	if isASCII(host) || strings.Contains(host, "{{") {
		return authority, nil
	}
	a, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", fmt.Errorf("%w: invalid host %q: %v", ErrSyntax, host, err)
	}
	return userinfo + a + port, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// encodeUnsafe percent-encodes characters that are legal in endpoint URIs
// but not in RFC 3986, so the standard parser can check the rest.
func encodeUnsafe(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case ' ', '"', '<', '>', '#', '{', '}', '|', '\\', '^', '`':
			fmt.Fprintf(&b, "%%%02X", c)
		case '%':
			if i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
				b.WriteByte(c)
			} else {
				b.WriteString("%25")
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// userInfo returns user and password from the authority, percent-decoded.
func (u *endpointURI) userInfo() (user, password string, ok bool) {
	at := strings.IndexByte(u.authority, '@')
	if at < 0 {
		return "", "", false
	}
	parts := strings.SplitN(u.authority[:at], ":", 2)
	user = unescape(parts[0])
	if len(parts) == 2 {
		password = unescape(parts[1])
	}
	return user, password, true
}

type queryParam struct {
	key   string
	value string
}

// parseQuery splits a raw query into decoded pairs in order. RAW(...) and
// RAW{...} values are kept verbatim and may contain '&'. A repeated key
// keeps its first position and last value.
func parseQuery(q string) ([]queryParam, error) {
	if q == "" {
		return nil, nil
	}
	if strings.HasSuffix(q, "&") {
		return nil, fmt.Errorf("%w: trailing & marker found, check the uri and remove the trailing & marker", ErrSyntax)
	}
	var out []queryParam
	pos := map[string]int{}
	for len(q) > 0 {
		var key, value string
		eq := strings.IndexAny(q, "=&")
		if eq < 0 || q[eq] == '&' {
			end := eq
			if end < 0 {
				end = len(q)
			}
			key, q = q[:end], q[end:]
		} else {
			key, q = q[:eq], q[eq+1:]
			value, q = cutValue(q)
		}
		q = strings.TrimPrefix(q, "&")
		if key == "" {
			continue
		}
		key = unescape(key)
		if !isRaw(value) {
			value = unescape(value)
		}
		if i, ok := pos[key]; ok {
			out[i].value = value
			continue
		}
		pos[key] = len(out)
		out = append(out, queryParam{key: key, value: value})
	}
	return out, nil
}

// cutValue takes a value up to the next '&' outside a RAW token.
func cutValue(q string) (string, string) {
	start := 0
	if isRawStart(q) {
		closer := byte(')')
		if q[3] == '{' {
			closer = '}'
		}
		if end := strings.IndexByte(q[4:], closer); end >= 0 {
			start = 4 + end + 1
		}
	}
	amp := strings.IndexByte(q[start:], '&')
	if amp < 0 {
		return q, ""
	}
	return q[:start+amp], q[start+amp:]
}

func isRawStart(v string) bool {
	return strings.HasPrefix(v, "RAW(") || strings.HasPrefix(v, "RAW{")
}

func isRaw(v string) bool {
	return isRawStart(v) && (strings.HasSuffix(v, ")") || strings.HasSuffix(v, "}"))
}

func unescape(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	return s
}

// createQueryString joins the keys in the given order. Values are
// percent-encoded when encode is set, except RAW values which are written
// as is.
func createQueryString(keys []string, props map[string]string, ampersand string, encode bool) string {
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString(ampersand)
		}
		v := props[k]
		if encode {
			b.WriteString(url.QueryEscape(k))
		} else {
			b.WriteString(k)
		}
		b.WriteByte('=')
		switch {
		case encode && !isRaw(v):
			b.WriteString(url.QueryEscape(v))
		default:
			b.WriteString(v)
		}
	}
	return b.String()
}
