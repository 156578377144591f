package stripe

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	appconfig "cinema-backend/internal/config"
)

// Config carries the Stripe credentials and redirect targets.
type Config struct {
	SecretKey     string
	WebhookSecret string
	APIURL        string
	SuccessURL    string
	CancelURL     string
	Currency      string
}

func NewConfig(cfg appconfig.StripeConfig) Config {
	return Config{
		SecretKey:     cfg.SecretKey,
		WebhookSecret: cfg.WebhookSecret,
		APIURL:        cfg.APIURL,
		SuccessURL:    cfg.SuccessURL,
		CancelURL:     cfg.CancelURL,
		Currency:      cfg.Currency,
	}
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SecretKey, validation.Required),
		validation.Field(&c.WebhookSecret, validation.Required),
		validation.Field(&c.APIURL, validation.Required, is.URL),
		validation.Field(&c.SuccessURL, validation.Required, is.URL),
		validation.Field(&c.CancelURL, validation.Required, is.URL),
		validation.Field(&c.Currency, validation.Required, validation.Length(3, 3)),
	)
}
