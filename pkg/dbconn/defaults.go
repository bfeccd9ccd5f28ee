package dbconn

import (
	"fmt"

	"github.com/go-ini/ini"
)

// LoadDefaultsFile fills unset Config fields from a my.cnf-style file.
// Only the [client] section is read. Values already set on the Config
// are kept.
func LoadDefaultsFile(config *Config) error {
	if config.DefaultsFile == "" {
		return nil
	}
	file, err := ini.Load(config.DefaultsFile)
	if err != nil {
		return fmt.Errorf("could not read defaults file %s: %w", config.DefaultsFile, err)
	}
	section := file.Section("client")
	if config.Username == "" {
		config.Username = section.Key("user").String()
	}
	if config.Password == "" {
		config.Password = section.Key("password").String()
	}
	if config.Database == "" {
		config.Database = section.Key("database").String()
	}
	host := section.Key("host").String()
	if host != "" && (config.Host == "" || config.Host == NewConfig().Host) {
		port := section.Key("port").MustString("3306")
		config.Host = host + ":" + port
	}
	return nil
}
