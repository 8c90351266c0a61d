package config

import "time"

// Config holds configuration for both the chat server and the web bridge.
type Config struct {
	// ChatAddr is the listen address of the TCP chat server.
	ChatAddr string `mapstructure:"chat_addr" yaml:"chat_addr"`
	// WebAddr is the listen address of the HTTP web server.
	WebAddr string `mapstructure:"web_addr" yaml:"web_addr"`
	// ChatServerAddr is the address the web bridge dials to reach the chat server.
	ChatServerAddr string `mapstructure:"chat_server_addr" yaml:"chat_server_addr"`

	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`
	StaticDir    string `mapstructure:"static_dir" yaml:"static_dir"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`

	// HandshakeTimeout bounds how long the chat server waits for a username line.
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout" yaml:"handshake_timeout"`
	// DialTimeout bounds the bridge's connection attempt to the chat server.
	DialTimeout time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
	// PromptTimeout bounds the bridge's wait for the username prompt.
	PromptTimeout time.Duration `mapstructure:"prompt_timeout" yaml:"prompt_timeout"`
	// ResponseTimeout bounds the bridge's wait for a command response.
	ResponseTimeout time.Duration `mapstructure:"response_timeout" yaml:"response_timeout"`

	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		ChatAddr:          ":8635",
		WebAddr:           ":8636",
		ChatServerAddr:    "127.0.0.1:8635",
		DatabasePath:      "chat_database.db",
		StaticDir:         "web",
		LogLevel:          "info",
		HandshakeTimeout:  5 * time.Second,
		DialTimeout:       5 * time.Second,
		PromptTimeout:     2 * time.Second,
		ResponseTimeout:   2 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
	}
}
