// Package config resolves where appinst keeps its files and reads the
// user's settings. Directories follow the XDG base directory layout.
package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "appinst"

// ReadOnly defines the read-only interface for Config.
// Immutable
type ReadOnly interface {
	GetCacheDir() string
	GetConfigDir() string
	GetStateDir() string
	GetDownloadDir() string
	GetPkgDir() string
	GetSettingsPath() string
	Freeze()
	Checkout() Writable
}

// Writable defines the writable interface for Config.
// Mutable
type Writable interface {
	ReadOnly
	SetCacheDir(string)
	SetConfigDir(string)
	SetStateDir(string)
}

// Config holds the base directories for appinst.
// Mutable
type Config struct {
	cacheDir  string
	configDir string
	stateDir  string

	downloadDir  string
	pkgDir       string
	settingsPath string

	frozen bool
	edited bool
}

var _ ReadOnly = (*Config)(nil)
var _ Writable = (*Config)(nil)

func (c *Config) GetCacheDir() string     { return c.cacheDir }
func (c *Config) GetConfigDir() string    { return c.configDir }
func (c *Config) GetStateDir() string     { return c.stateDir }
func (c *Config) GetDownloadDir() string  { return c.downloadDir }
func (c *Config) GetPkgDir() string       { return c.pkgDir }
func (c *Config) GetSettingsPath() string { return c.settingsPath }

func (c *Config) SetCacheDir(s string) {
	c.mustBeEditable()
	c.cacheDir = s
	c.updateDerived()
}

func (c *Config) SetConfigDir(s string) {
	c.mustBeEditable()
	c.configDir = s
	c.updateDerived()
}

func (c *Config) SetStateDir(s string) {
	c.mustBeEditable()
	c.stateDir = s
	c.updateDerived()
}

func (c *Config) mustBeEditable() {
	if c.frozen {
		panic("cannot modify frozen config")
	}
}

// Freeze makes every later setter panic.
func (c *Config) Freeze() {
	c.frozen = true
}

// Checkout hands out the writable view once, before the config is frozen.
func (c *Config) Checkout() Writable {
	if c.frozen {
		panic("cannot checkout from frozen config")
	}
	if c.edited {
		panic("config already checked out")
	}
	c.edited = true
	return c
}

func (c *Config) updateDerived() {
	c.downloadDir = filepath.Join(c.cacheDir, "downloads")
	c.pkgDir = filepath.Join(c.stateDir, "pkgs")
	c.settingsPath = filepath.Join(c.configDir, "settings.json")
}

// Init builds the configuration from the XDG base directories.
func Init() ReadOnly {
	c := &Config{
		cacheDir:  filepath.Join(xdg.CacheHome, appName),
		configDir: filepath.Join(xdg.ConfigHome, appName),
		stateDir:  filepath.Join(xdg.StateHome, appName),
	}
	c.updateDerived()
	return c
}
