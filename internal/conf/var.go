package conf

// Conf is the loaded global configuration, set by bootstrap.InitConfig.
var Conf *Config
