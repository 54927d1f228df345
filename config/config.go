package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SystemConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host          string `yaml:"host" json:"host"`
	Port          int    `yaml:"port" json:"port"`
	Secret        string `yaml:"secret" json:"secret"`
	AdminPassword string `yaml:"admin_password" json:"admin_password"`
	AssetsDir     string `yaml:"assets_dir" json:"assets_dir"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

// CatalogConfig holds the storefront settings: the single outbound WhatsApp
// contact used by every checkout link and the fallback message template.
type CatalogConfig struct {
	WhatsappNumber  string `yaml:"whatsapp_number" json:"whatsapp_number"`
	MessageTemplate string `yaml:"message_template" json:"message_template"`
	SeedOnEmpty     bool   `yaml:"seed_on_empty" json:"seed_on_empty"`
}

type AppConfig struct {
	System  SystemConfig  `yaml:"system" json:"system"`
	Web     WebConfig     `yaml:"web" json:"web"`
	Logger  LoggerConfig  `yaml:"logger" json:"logger"`
	Catalog CatalogConfig `yaml:"catalog" json:"catalog"`
}

func DefaultConfig() *AppConfig {
	return &AppConfig{
		System: SystemConfig{
			Appid:    "Catalogo",
			Location: "America/Sao_Paulo",
			Workdir:  "/var/catalogo",
			Debug:    false,
		},
		Web: WebConfig{
			Host:          "0.0.0.0",
			Port:          3000,
			Secret:        "9b6de5cc-catalogo-1113-secret",
			AdminPassword: "catalogo",
			AssetsDir:     "public",
		},
		Logger: LoggerConfig{
			Mode:       "development",
			FileEnable: true,
			Filename:   "/var/catalogo/catalogo.log",
		},
		Catalog: CatalogConfig{
			WhatsappNumber:  "553299796446",
			MessageTemplate: "Olá! Gostei do item {label}. Quero um desse.",
			SeedOnEmpty:     true,
		},
	}
}

// LoadConfig reads the yaml configuration file when it exists and then applies
// environment overrides, so a container deployment never needs the file.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultConfig()
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}
	setEnvValue("CATALOGO_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("CATALOGO_SYSTEM_DEBUG", &cfg.System.Debug)
	setEnvValue("CATALOGO_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("CATALOGO_WEB_PORT", &cfg.Web.Port)
	setEnvValue("CATALOGO_WEB_SECRET", &cfg.Web.Secret)
	setEnvValue("CATALOGO_WEB_ADMIN_PASSWORD", &cfg.Web.AdminPassword)
	setEnvValue("CATALOGO_WEB_ASSETS_DIR", &cfg.Web.AssetsDir)
	setEnvValue("CATALOGO_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvValue("CATALOGO_WHATSAPP_NUMBER", &cfg.Catalog.WhatsappNumber)
	setEnvValue("CATALOGO_MESSAGE_TEMPLATE", &cfg.Catalog.MessageTemplate)
	setEnvBoolValue("CATALOGO_SEED_ON_EMPTY", &cfg.Catalog.SeedOnEmpty)
	return cfg
}

// UploadDir is where uploaded product images land, below the assets dir so the
// static file server exposes them at img/produtos/<file>.
func (c *AppConfig) UploadDir() string {
	return filepath.Join(c.Web.AssetsDir, "img", "produtos")
}

func (c *AppConfig) BackupDir() string {
	return filepath.Join(c.System.Workdir, "backup")
}

func setEnvValue(name string, f *string) {
	if v, ok := os.LookupEnv(name); ok {
		*f = v
	}
}

func setEnvBoolValue(name string, f *bool) {
	if v, ok := os.LookupEnv(name); ok {
		*f = cast.ToBool(v)
	}
}

func setEnvIntValue(name string, f *int) {
	if v, ok := os.LookupEnv(name); ok {
		*f = cast.ToInt(v)
	}
}
