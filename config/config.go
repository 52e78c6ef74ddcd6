package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port   string `mapstructure:"PORT"`
	AppEnv string `mapstructure:"APP_ENV"`

	MongoURI string `mapstructure:"MONGO_URI"`
	MongoDB  string `mapstructure:"MONGO_DB"`

	LogLevel      string `mapstructure:"LOG_LEVEL"`
	LogFile       string `mapstructure:"LOG_FILE"`
	LogMaxSize    int    `mapstructure:"LOG_MAX_SIZE"`
	LogMaxBackups int    `mapstructure:"LOG_MAX_BACKUPS"`
	LogMaxAge     int    `mapstructure:"LOG_MAX_AGE"`

	GracePeriod           time.Duration `mapstructure:"GRACE_PERIOD"`
	RequireRegisteredUser bool          `mapstructure:"REQUIRE_REGISTERED_USER"`
	RecoverySchedule      string        `mapstructure:"RECOVERY_SCHEDULE"`
	MapLinkFormat         string        `mapstructure:"MAP_LINK_FORMAT"`

	ResponderMode  string   `mapstructure:"RESPONDER_MODE"`
	OverpassURL    string   `mapstructure:"OVERPASS_URL"`
	SearchRadiusM  float64  `mapstructure:"SEARCH_RADIUS_M"`
	PoliceName     string   `mapstructure:"POLICE_NAME"`
	PolicePhone    string   `mapstructure:"POLICE_PHONE"`
	HospitalNames  []string `mapstructure:"-"`
	HospitalPhones []string `mapstructure:"-"`

	TwilioBaseURL     string `mapstructure:"TWILIO_BASE_URL"`
	TwilioAccountSID  string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber string `mapstructure:"TWILIO_PHONE_NUMBER"`
	TwilioVoice       string `mapstructure:"TWILIO_VOICE"`

	FirebaseCredentials string `mapstructure:"FIREBASE_CREDENTIALS"`

	NominatimURL string `mapstructure:"NOMINATIM_URL"`
	OSRMURL      string `mapstructure:"OSRM_URL"`

	ConsulAddr  string `mapstructure:"CONSUL_ADDR"`
	ServiceName string `mapstructure:"SERVICE_NAME"`
	ServiceHost string `mapstructure:"SERVICE_HOST"`
}

const (
	defaultHospitalNames  = "Emergency Hospital - Primary,City General Hospital,Trauma Center"
	defaultHospitalPhones = "+917338903743,+919999999999,+918888888888"
)

var keys = []string{
	"PORT", "APP_ENV",
	"MONGO_URI", "MONGO_DB",
	"LOG_LEVEL", "LOG_FILE", "LOG_MAX_SIZE", "LOG_MAX_BACKUPS", "LOG_MAX_AGE",
	"GRACE_PERIOD", "REQUIRE_REGISTERED_USER", "RECOVERY_SCHEDULE", "MAP_LINK_FORMAT",
	"RESPONDER_MODE", "OVERPASS_URL", "SEARCH_RADIUS_M",
	"POLICE_NAME", "POLICE_PHONE", "HOSPITAL_NAMES", "HOSPITAL_PHONES",
	"TWILIO_BASE_URL", "TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_PHONE_NUMBER", "TWILIO_VOICE",
	"FIREBASE_CREDENTIALS",
	"NOMINATIM_URL", "OSRM_URL",
	"CONSUL_ADDR", "SERVICE_NAME", "SERVICE_HOST",
}

func LoadConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "accident_alerts")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_MAX_SIZE", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 5)
	v.SetDefault("LOG_MAX_AGE", 30)
	v.SetDefault("GRACE_PERIOD", "30s")
	v.SetDefault("REQUIRE_REGISTERED_USER", true)
	v.SetDefault("RECOVERY_SCHEDULE", "0 */1 * * * *")
	v.SetDefault("MAP_LINK_FORMAT", "https://www.google.com/maps?q=%s,%s")
	v.SetDefault("RESPONDER_MODE", "static")
	v.SetDefault("OVERPASS_URL", "https://overpass-api.de")
	v.SetDefault("SEARCH_RADIUS_M", 5000)
	v.SetDefault("POLICE_NAME", "Local Police Station")
	v.SetDefault("POLICE_PHONE", "+919342170059")
	v.SetDefault("HOSPITAL_NAMES", defaultHospitalNames)
	v.SetDefault("HOSPITAL_PHONES", defaultHospitalPhones)
	v.SetDefault("TWILIO_BASE_URL", "https://api.twilio.com")
	v.SetDefault("TWILIO_VOICE", "alice")
	v.SetDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("OSRM_URL", "http://router.project-osrm.org")
	v.SetDefault("SERVICE_NAME", "accident-service")
	v.SetDefault("SERVICE_HOST", "localhost")

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		log.Printf("Failed to unmarshal config, falling back to defaults: %v", err)
	}

	// viper only splits slices coming from config files, env values arrive as one string
	cfg.HospitalNames = splitList(v.GetString("HOSPITAL_NAMES"))
	cfg.HospitalPhones = splitList(v.GetString("HOSPITAL_PHONES"))

	if len(cfg.HospitalPhones) == 0 {
		log.Printf("HOSPITAL_PHONES is empty, using default hospitals")
		cfg.HospitalNames = splitList(defaultHospitalNames)
		cfg.HospitalPhones = splitList(defaultHospitalPhones)
	}

	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = 30 * time.Second
	}

	return cfg
}

func (c *Config) IsDev() bool {
	return c.AppEnv == "development"
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
