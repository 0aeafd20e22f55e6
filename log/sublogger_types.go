package log

// Global vars related to the logger package
var (
	subLoggers = map[string]*SubLogger{}

	Global       *SubLogger
	ConfigMgr    *SubLogger
	LookupSys    *SubLogger
	WebserverSys *SubLogger

	RequestSys  *SubLogger
	ExchangeSys *SubLogger
)
