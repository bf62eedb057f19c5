// Package conf holds the configuration object passed to the connection layer
// and the parser for the metastore URIs stored in it.
//
// A HiveConf is an opaque bag of Hadoop style keys (hive.metastore.uris,
// hive.io.file.readcolumn.ids, ...) backed by viper. It can be created empty,
// from the environment or from a configuration file:
//
//	c, err := conf.Load("hive-site.yaml")
//	if err != nil {
//		return err
//	}
//	for _, endpoint := range conf.Endpoints(c, conf.MetastoreURIs) {
//		fmt.Println(endpoint.Address())
//	}
//
// Malformed URI entries never fail the whole list. They are logged as
// common.UriParseError and skipped.
package conf
