package conf

// Well-known configuration keys. Keys follow the naming of hive-site.xml so
// existing settings can be reused unchanged.
const (
	// MetastoreURIs is the comma separated list of metastore uris
	// (e.g. thrift://ms1:9083,thrift://ms2:9083)
	MetastoreURIs = "hive.metastore.uris"
	// MetastoreHost and MetastorePort describe a single metastore without an uri
	MetastoreHost = "hive.metastore.host"
	MetastorePort = "hive.metastore.port"

	// MetastoreConnectRetries is the number of connection rounds of the client
	MetastoreConnectRetries = "hive.metastore.connect.retries"
	// MetastoreConnectRetryDelay is the delay before the second round (seconds or duration)
	MetastoreConnectRetryDelay = "hive.metastore.client.connect.retry.delay"
	// MetastoreSocketTimeout bounds reads and writes on a connection (seconds or duration)
	MetastoreSocketTimeout = "hive.metastore.client.socket.timeout"

	// MetastoreTransportMode is either "binary" or "http"
	MetastoreTransportMode = "hive.metastore.transport.mode"
	// MetastoreHTTPPath is the url path used in http transport mode
	MetastoreHTTPPath = "hive.metastore.http.path"
	// MetastoreFramedTransport enables framed transports in binary mode
	MetastoreFramedTransport = "hive.metastore.thrift.framed.transport.enabled"
	// MetastoreCompactProtocol selects the compact instead of the binary protocol
	MetastoreCompactProtocol = "hive.metastore.thrift.compact.protocol.enabled"

	// ReadColumnIDs is the comma separated list of column ids a reader projects
	ReadColumnIDs = "hive.io.file.readcolumn.ids"
	// ReadAllColumns disables the column projection of readers
	ReadAllColumns = "hive.io.file.read.all.columns"
	// RCFileColumnNumber is the number of columns an RCFile writer writes
	RCFileColumnNumber = "hive.io.rcfile.column.number.conf"
)
