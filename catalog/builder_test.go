package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsEndpointURI(t *testing.T) {
	c := newTestCatalog(t)

	tests := []struct {
		name   string
		scheme string
		props  map[string]string
		encode bool
		want   string
	}{
		{"file", "file", map[string]string{"directoryName": "src/data/inbox", "noop": "true", "delay": "5000"}, true, "file:src/data/inbox?delay=5000&noop=true"},
		{"ftp", "ftp", map[string]string{"host": "someserver", "port": "21", "directoryName": "foo", "connectTimeout": "5000"}, true, "ftp:someserver:21/foo?connectTimeout=5000"},
		{"jms full", "jms", map[string]string{"destinationType": "queue", "destinationName": "foo"}, true, "jms:queue:foo"},
		{"jms required only", "jms", map[string]string{"destinationName": "foo"}, true, "jms:foo"},
		{"jms query", "jms", map[string]string{"destinationName": "foo", "deliveryPersistent": "false", "allowNullBody": "true"}, true, "jms:foo?allowNullBody=true&deliveryPersistent=false"},
		{"default value kept", "jms", map[string]string{"destinationName": "cheese", "maxMessagesPerTask": "-1"}, true, "jms:cheese?maxMessagesPerTask=-1"},
		{"netty", "netty-http", map[string]string{"protocol": "http", "host": "localhost", "port": "8080", "path": "foo/bar", "disconnect": "true"}, true, "netty-http:http://localhost:8080/foo/bar?disconnect=true"},
		{"netty query in path", "netty-http", map[string]string{"protocol": "https", "host": "localhost", "port": "8080", "path": "foo/bar?verbose=true", "disconnect": "true"}, true, "netty-http:https://localhost:8080/foo/bar?verbose=true&disconnect=true"},
		{"netty no path", "netty-http", map[string]string{"protocol": "http", "host": "a-b-c.hostname.tld", "port": "8080"}, false, "netty-http:http://a-b-c.hostname.tld:8080"},
		{"timer", "timer", map[string]string{"timerName": "foo", "period": "5000"}, true, "timer:foo?period=5000"},
		{"placeholder encoded", "timer", map[string]string{"timerName": "foo", "period": "{{howoften}}", "repeatCount": "5"}, true, "timer:foo?period=%7B%7Bhowoften%7D%7D&repeatCount=5"},
		{"placeholder raw", "timer", map[string]string{"timerName": "foo", "period": "{{howoften}}", "repeatCount": "5"}, false, "timer:foo?period={{howoften}}&repeatCount=5"},
		{"reference encoded", "xslt", map[string]string{"resourceUri": "foo.xslt", "converter": "#myConverter"}, true, "xslt:foo.xslt?converter=%23myConverter"},
		{"reference raw", "xslt", map[string]string{"resourceUri": "foo.xslt", "converter": "#myConverter"}, false, "xslt:foo.xslt?converter=#myConverter"},
		{"rest template", "rest", map[string]string{"method": "get", "path": "api", "uriTemplate": "user/{id}"}, true, "rest:get:api:user/{id}"},
		{"sql placeholder", "sql", map[string]string{"query": "{{insert}}"}, false, "sql:{{insert}}"},
		{"sql params", "sql", map[string]string{"query": "{{insert}}", "useMessageBodyForSql": "true", "parametersCount": "{{count}}"}, false, "sql:{{insert}}?parametersCount={{count}}&useMessageBodyForSql=true"},
		{"stream", "stream", map[string]string{"kind": "url", "url": "http://camel.apache.org"}, false, "stream:url?url=http://camel.apache.org"},
		{"log short", "log", map[string]string{"loggerName": "foo", "loggerLevel": "DEBUG"}, false, "log:foo?loggerLevel=DEBUG"},
		{"log show all", "log", map[string]string{"loggerName": "foo", "loggerLevel": "WARN", "multiline": "true", "showAll": "true", "showBody": "false", "showBodyType": "false", "showExchangePattern": "false", "style": "Tab"}, false, "log:foo?loggerLevel=WARN&multiline=true&showAll=true&style=Tab"},
		{"raw value", "timer", map[string]string{"timerName": "foo", "pattern": "RAW(a&b c)"}, true, "timer:foo?pattern=RAW(a&b c)"},
		{"only query", "timer", map[string]string{"period": "5"}, true, "timer?period=5"},
		{"nothing", "timer", map[string]string{}, true, "timer"},
		{"required default", "quartz", map[string]string{"triggerName": "t1"}, true, "quartz:t1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.AsEndpointURI(tt.scheme, tt.props, tt.encode)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAsEndpointURIXML(t *testing.T) {
	c := newTestCatalog(t)

	got, err := c.AsEndpointURIXML("file", map[string]string{"directoryName": "src/data/inbox", "noop": "true", "delay": "5000"}, true)
	require.NoError(t, err)
	assert.Equal(t, "file:src/data/inbox?delay=5000&amp;noop=true", got)

	got, err = c.AsEndpointURIXML("ftp", map[string]string{"host": "someserver", "port": "21", "directoryName": "foo", "connectTimeout": "5000"}, true)
	require.NoError(t, err)
	assert.Equal(t, "ftp:someserver:21/foo?connectTimeout=5000", got)
}

func TestAsEndpointURIErrors(t *testing.T) {
	c := newTestCatalog(t)

	_, err := c.AsEndpointURI("nope", map[string]string{}, true)
	assert.ErrorIs(t, err, ErrUnknownComponent)

	r := NewMapResolver().Add(NamespaceComponent, "nosyntax", []byte(`{"component": {"scheme": "nosyntax"}}`))
	_, err = New(r).AsEndpointURI("nosyntax", map[string]string{"a": "b"}, true)
	assert.ErrorIs(t, err, ErrMissingSyntax)
}

func TestPropertyFilter(t *testing.T) {
	upper := func(props map[string]string) map[string]string {
		out := map[string]string{}
		for k, v := range props {
			out[k] = v
		}
		out["loggerName"] = "filtered"
		return out
	}
	c := newTestCatalog(t, WithPropertyFilter("log", upper))
	got, err := c.AsEndpointURI("log", map[string]string{"loggerName": "foo", "showAll": "true", "showBody": "false"}, false)
	require.NoError(t, err)
	assert.Equal(t, "log:filtered?showAll=true&showBody=false", got)

	c = newTestCatalog(t, WithPropertyFilter("log", nil))
	got, err = c.AsEndpointURI("log", map[string]string{"loggerName": "foo", "showAll": "true", "showBody": "false"}, false)
	require.NoError(t, err)
	assert.Equal(t, "log:foo?showAll=true&showBody=false", got)
}

func TestRoundTrip(t *testing.T) {
	c := newTestCatalog(t)

	for _, uri := range []string{
		"ftp:someserver:21/foo?connectTimeout=5000",
		"jms:queue:foo",
		"jms:foo?allowNullBody=true&deliveryPersistent=false",
		"netty-http:http://localhost:8080/foo/bar?disconnect=true",
		"timer:foo?period=5000&repeatCount=5",
		"ssh:localhost:22",
	} {
		t.Run(uri, func(t *testing.T) {
			p, err := c.EndpointProperties(uri)
			require.NoError(t, err)
			got, err := c.AsEndpointURI(c.EndpointComponentName(uri), p.Map(), true)
			require.NoError(t, err)
			assert.Equal(t, uri, got)
		})
	}
}

func TestAsEndpointURIFromJSON(t *testing.T) {
	c := newTestCatalog(t)
	doc := `{
	  "properties": {
	    "timerName": {"kind": "path", "required": true, "value": "foo"},
	    "period": {"type": "integer", "defaultValue": 1000, "value": 5000},
	    "repeatCount": {"type": "integer", "defaultValue": 0, "value": 0},
	    "daemon": {"type": "boolean", "defaultValue": true}
	  }
	}`

	got, err := c.AsEndpointURIFromJSON("timer", doc, true)
	require.NoError(t, err)
	assert.Equal(t, "timer:foo?period=5000", got)

	got, err = c.AsEndpointURIXMLFromJSON("timer", doc, true)
	require.NoError(t, err)
	assert.Equal(t, "timer:foo?period=5000", got)

	_, err = c.AsEndpointURIFromJSON("timer", `[`, true)
	assert.ErrorIs(t, err, ErrInvalidSchema)
}

func TestPropertiesFromDocumentRequiredFallback(t *testing.T) {
	props, err := propertiesFromDocument("jms", `{"properties": {
	  "destinationType": {"kind": "path", "required": true, "defaultValue": "queue"},
	  "destinationName": {"kind": "path", "required": true}
	}}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"destinationType": "queue", "destinationName": ""}, props)
}
