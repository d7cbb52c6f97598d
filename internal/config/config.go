package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".tapo-cli" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tapo-cli")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		// Config loaded successfully
	}
}

// Device is one configured camera endpoint.
type Device struct {
	Name     string `mapstructure:"name"`
	Host     string `mapstructure:"host"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Model    string `mapstructure:"model"`
}

// Devices returns the configured camera list from the `devices:` key.
func Devices() ([]Device, error) {
	var devices []Device
	if err := viper.UnmarshalKey("devices", &devices); err != nil {
		return nil, fmt.Errorf("failed to parse devices from config: %w", err)
	}

	for i, d := range devices {
		if d.Host == "" {
			return nil, fmt.Errorf("device %d (%q) has no host configured", i, d.Name)
		}
	}

	return devices, nil
}

// SaveDevices updates the config file with the new device list
func SaveDevices(devices []Device) error {
	viper.Set("devices", devices)

	// Ensure the file exists before writing
	if err := viper.WriteConfig(); err != nil {
		// If file doesn't exist, create it
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return viper.SafeWriteConfig()
		}
		// If it exists but failed to write, try writing to default path
		home, _ := os.UserHomeDir()
		path := filepath.Join(home, ".tapo-cli.yaml")
		return viper.WriteConfigAs(path)
	}
	return nil
}
