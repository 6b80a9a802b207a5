package config

var DefaultWebhookConfig = WebhookConfig{}

type Listeners struct {
	// Start and Stop are cron expressions opening and closing the window
	// listeners accept notifications in. Without Start listeners run always.
	Start []string `yaml:"start" json:"start"`
	Stop  []string `yaml:"stop" json:"stop"`

	WebhookConfigs []*WebhookConfig `yaml:"webhook_configs" json:"webhook_configs"`
}

type WebhookConfig struct {
	Name  string `yaml:"path" json:"path"`
	Token string `yaml:"token" json:"token"`
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (c *WebhookConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	*c = DefaultWebhookConfig
	type plain WebhookConfig
	if err := unmarshal((*plain)(c)); err != nil {
		return err
	}

	return nil
}
