package config

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/pem"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"
	"github.com/upravdom/facility-service/internal/utils"
)

type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	AppUrl           string

	// Database
	DBUrl string

	// Fire-alarm panel aggregator
	PanelBaseURL string
	PanelAPIKey  string

	// Twilio / SendGrid for worker assignment notifications
	TwilioAccountSID string
	TwilioAuthToken  string
	SendGridAPIKey   string

	// Auth
	RSAPublicKey *rsa.PublicKey

	// Feature flags (LaunchDarkly, env fallback when LD_SDK_KEY is unset)
	LDFlag_TwilioFromPhone     string
	LDFlag_SendgridFromEmail   string
	LDFlag_SendgridSandboxMode bool
	LDFlag_SeedDbWithTestData  bool
	LDFlag_CORSHighSecurity    bool
	LDFlag_PanelPollingEnabled bool
}

const (
	OrganizationName    = "Upravdom"
	LDConnectionTimeout = 5 * time.Second
)

// build-time overrides
var (
	AppName             string
	LDServerContextKey  string
	LDServerContextKind string
)

func LoadConfig() *Config {
	if AppName == "" {
		AppName = "facility-service"
	}

	utils.Logger.Info("Loading config for app: ", AppName)

	appUrl := os.Getenv("APP_URL")
	if appUrl == "" {
		utils.Logger.Fatal("APP_URL env var is missing")
	}
	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		utils.Logger.Fatal("APP_PORT env var is missing")
	}
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		utils.Logger.Fatal("DB_URL env var is missing")
	}

	pubB64 := os.Getenv("RSA_PUBLIC_KEY_BASE64")
	if pubB64 == "" {
		utils.Logger.Fatal("RSA_PUBLIC_KEY_BASE64 env var is missing")
	}
	pubPEM, _ := base64.StdEncoding.DecodeString(pubB64)
	if block, _ := pem.Decode(pubPEM); block == nil {
		utils.Logger.Fatal("Failed to decode PEM block for public key")
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key")
	}

	cfg := &Config{
		OrganizationName: OrganizationName,
		AppName:          AppName,
		AppPort:          appPort,
		AppUrl:           appUrl,
		DBUrl:            dbURL,

		PanelBaseURL: os.Getenv("PANEL_BASE_URL"),
		PanelAPIKey:  os.Getenv("PANEL_API_KEY"),

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		SendGridAPIKey:   os.Getenv("SENDGRID_API_KEY"),

		RSAPublicKey: pubKey,
	}

	loadFlags(cfg)
	return cfg
}

// loadFlags reads feature flags from LaunchDarkly when LD_SDK_KEY is
// configured, falling back to env vars otherwise (local dev, CI).
func loadFlags(cfg *Config) {
	ldSDKKey := os.Getenv("LD_SDK_KEY")
	if ldSDKKey == "" {
		utils.Logger.Warn("LD_SDK_KEY not set; reading feature flags from env")
		cfg.LDFlag_TwilioFromPhone = envOr("TWILIO_FROM_PHONE", "+10005550006")
		cfg.LDFlag_SendgridFromEmail = envOr("SENDGRID_FROM_EMAIL", "no-reply@upravdom.app")
		cfg.LDFlag_SendgridSandboxMode = os.Getenv("SENDGRID_SANDBOX_MODE") == "true"
		cfg.LDFlag_SeedDbWithTestData = os.Getenv("SEED_DB_WITH_TEST_DATA") == "true"
		cfg.LDFlag_CORSHighSecurity = os.Getenv("CORS_HIGH_SECURITY") == "true"
		cfg.LDFlag_PanelPollingEnabled = os.Getenv("PANEL_POLLING_ENABLED") == "true"
		return
	}

	ldClient, err := ld.MakeClient(ldSDKKey, LDConnectionTimeout)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to create LaunchDarkly client")
	}
	if !ldClient.Initialized() {
		ldClient.Close()
		utils.Logger.Fatal("LaunchDarkly client failed to initialize")
	}
	defer ldClient.Close()

	contextKind := LDServerContextKind
	if contextKind == "" {
		contextKind = "service"
	}
	contextKey := LDServerContextKey
	if contextKey == "" {
		contextKey = AppName
	}
	ctx := ldcontext.NewWithKind(ldcontext.Kind(contextKind), contextKey)

	twilioFromFlag, err := ldClient.StringVariation("twilio_from_phone", ctx, "")
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving twilio_from_phone flag")
	}
	if twilioFromFlag == "" {
		utils.Logger.Warn("twilio_from_phone flag is empty, defaulting to +10005550006")
		twilioFromFlag = "+10005550006"
	}
	cfg.LDFlag_TwilioFromPhone = twilioFromFlag

	sgFromFlag, err := ldClient.StringVariation("sendgrid_from_email", ctx, "")
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving sendgrid_from_email flag")
	}
	if sgFromFlag == "" {
		utils.Logger.Warn("sendgrid_from_email flag is empty, defaulting to no-reply@upravdom.app")
		sgFromFlag = "no-reply@upravdom.app"
	}
	cfg.LDFlag_SendgridFromEmail = sgFromFlag

	sgSandboxFlag, err := ldClient.BoolVariation("sendgrid_sandbox_mode", ctx, false)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving sendgrid_sandbox_mode flag")
	}
	cfg.LDFlag_SendgridSandboxMode = sgSandboxFlag

	seedFlag, err := ldClient.BoolVariation("seed_db_with_test_data", ctx, false)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving seed_db_with_test_data flag")
	}
	cfg.LDFlag_SeedDbWithTestData = seedFlag

	corsFlag, err := ldClient.BoolVariation("cors_high_security", ctx, false)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving cors_high_security flag")
	}
	cfg.LDFlag_CORSHighSecurity = corsFlag

	pollFlag, err := ldClient.BoolVariation("panel_polling_enabled", ctx, true)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving panel_polling_enabled flag")
	}
	cfg.LDFlag_PanelPollingEnabled = pollFlag
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
