// Package config handles the loading and saving of the shell's
// configuration file.
package config

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"os/user"
	"path"

	"gopkg.in/yaml.v2"
)

const (
	configDir  string = ".dbgsh"
	configFile string = "config.yml"

	// HistoryFile is the name of the command history file, stored next to
	// the configuration file.
	HistoryFile string = "history"
)

// Config defines all configuration options available to be set through the
// config file.
type Config struct {
	// Command aliases.
	Aliases map[string][]string `yaml:"aliases"`

	// SymbolPath is installed as the engine's symbol search path on
	// startup, when set.
	SymbolPath string `yaml:"symbol-path"`

	// StartupCommands are engine commands executed when a session starts.
	StartupCommands []string `yaml:"startup-commands"`

	// MaxDumpBytes is the number of bytes the memory dump command reads
	// when no length is given.
	MaxDumpBytes *int `yaml:"max-dump-bytes,omitempty"`

	// PromptColor is the ANSI foreground color (3/4 bit codes as defined
	// here: https://en.wikipedia.org/wiki/ANSI_escape_code#Colors) used
	// for shell output prefixes.
	PromptColor int `yaml:"prompt-color"`
}

// DefaultMaxDumpBytes is used when max-dump-bytes is not configured.
const DefaultMaxDumpBytes = 128

// MaxDump returns the configured memory dump size, or the default.
func (c *Config) MaxDump() int {
	if c.MaxDumpBytes == nil || *c.MaxDumpBytes <= 0 {
		return DefaultMaxDumpBytes
	}
	return *c.MaxDumpBytes
}

// LoadConfig attempts to populate a Config object from the config.yml file.
func LoadConfig() *Config {
	err := createConfigPath()
	if err != nil {
		fmt.Printf("Could not create config directory: %v.", err)
		return &Config{}
	}
	fullConfigFile, err := GetConfigFilePath(configFile)
	if err != nil {
		fmt.Printf("Unable to get config file path: %v.", err)
		return &Config{}
	}

	f, err := os.Open(fullConfigFile)
	if err != nil {
		f, err = createDefaultConfig(fullConfigFile)
		if err != nil {
			fmt.Printf("Error creating default config file: %v", err)
			return &Config{}
		}
	}
	defer func() {
		err := f.Close()
		if err != nil {
			fmt.Printf("Closing config file failed: %v.", err)
		}
	}()

	data, err := ioutil.ReadAll(f)
	if err != nil {
		fmt.Printf("Unable to read config data: %v.", err)
		return &Config{}
	}

	c, err := ParseConfig(data)
	if err != nil {
		fmt.Printf("Unable to decode config file: %v.", err)
		return &Config{}
	}
	return c
}

// ParseConfig decodes a configuration document.
func ParseConfig(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveConfig will marshal and save the config struct to disk.
func SaveConfig(conf *Config) error {
	fullConfigFile, err := GetConfigFilePath(configFile)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(*conf)
	if err != nil {
		return err
	}

	f, err := os.Create(fullConfigFile)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(out)
	return err
}

func createDefaultConfig(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("unable to create config file: %v", err)
	}
	err = writeDefaultConfig(f)
	if err != nil {
		return nil, fmt.Errorf("unable to write default configuration: %v", err)
	}
	f.Seek(0, io.SeekStart)
	return f, nil
}

func writeDefaultConfig(f *os.File) error {
	_, err := f.WriteString(
		`# Configuration file for the dbgsh debugger shell.

# This is the default configuration file. Available options are provided,
# but disabled. Delete the leading hash mark to enable an item.

# Provided aliases will be added to the default aliases for a given command.
aliases:
  # command: ["alias1", "alias2"]

# Symbol search path installed on startup.
# symbol-path: "srv*c:\symbols*https://msdl.microsoft.com/download/symbols"

# Engine commands executed when a session starts.
# startup-commands: [".symopt+0x40"]

# Number of bytes read by the memory dump command when no length is given.
# max-dump-bytes: 128

# ANSI foreground color used for shell output prefixes.
# prompt-color: 34
`)
	return err
}

// createConfigPath creates the directory structure at which all config
// files are saved.
func createConfigPath() error {
	path, err := GetConfigFilePath("")
	if err != nil {
		return err
	}
	return os.MkdirAll(path, 0700)
}

// GetConfigFilePath gets the full path to the given config file name.
func GetConfigFilePath(file string) (string, error) {
	userHomeDir := "."
	usr, err := user.Current()
	if err == nil {
		userHomeDir = usr.HomeDir
	}
	return path.Join(userHomeDir, configDir, file), nil
}
