package conf

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/ValentinKolb/hivemeta/rpc/common"
)

// URIs returns the entries of the multi-valued key as parsed URIs, in the
// order they are configured. Entries that cannot be used are logged and
// skipped:
//   - entries that are not valid URI syntax
//   - entries without a scheme ("ms1:9083" parses as scheme "ms1" without a
//     host and is skipped as well)
//   - entries without a host
//
// An unset key yields an empty list.
func URIs(c *HiveConf, key string) []*url.URL {
	var uris []*url.URL
	for _, part := range c.GetStrings(key) {
		entry := strings.TrimSpace(part)
		if entry == "" {
			continue
		}

		uri, err := url.Parse(entry)
		if err != nil {
			Logger.Errorf("%v", &common.UriParseError{Key: key, Entry: entry, Err: err})
			continue
		}

		switch {
		case uri.Scheme == "":
			Logger.Errorf("%v", &common.UriParseError{Key: key, Entry: entry, Msg: "does not have a scheme"})
		case uri.Hostname() == "":
			Logger.Errorf("%v", &common.UriParseError{Key: key, Entry: entry, Msg: "does not have a host"})
		default:
			uris = append(uris, uri)
		}
	}
	return uris
}

// Endpoints returns the URIs of key as endpoints. URIs without an explicit
// port use common.DefaultMetastorePort, URIs with a port outside of 1-65535
// are logged and skipped.
func Endpoints(c *HiveConf, key string) []common.Endpoint {
	uris := URIs(c, key)
	endpoints := make([]common.Endpoint, 0, len(uris))
	for _, uri := range uris {
		endpoint, err := EndpointOf(uri)
		if err != nil {
			Logger.Errorf("%v", &common.UriParseError{Key: key, Entry: uri.String(), Err: err})
			continue
		}
		endpoints = append(endpoints, endpoint)
	}
	return endpoints
}

// EndpointOf converts an URI with a host to an endpoint
func EndpointOf(uri *url.URL) (common.Endpoint, error) {
	port := common.DefaultMetastorePort
	if p := uri.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return common.Endpoint{}, err
		}
		if n < 1 || n > 65535 {
			return common.Endpoint{}, strconv.ErrRange
		}
		port = n
	}
	return common.Endpoint{Scheme: uri.Scheme, Host: uri.Hostname(), Port: port}, nil
}
