package config

import (
	"os"
	"time"
)

var (
	DefaultHipChatConfig = HipChatConfig{
		URL:      "https://api.hipchat.com",
		Username: "Seyren Alert",
		Timeout:  10 * time.Second,
	}
	DefaultSlackConfig = SlackConfig{
		Username: "Seyren Alert",
		Timeout:  10 * time.Second,
	}
	DefaultWebitelConfig = WebitelConfig{
		Authorization: &Authorization{
			Header: "X-Webitel-Access",
		},
	}
)

type Notifiers struct {
	StdOut bool `yaml:"stdout" json:"stdout"`

	HipChatConfigs []*HipChatConfig `yaml:"hipchat_configs" json:"hipchat_configs"`
	SlackConfigs   []*SlackConfig   `yaml:"slack_configs" json:"slack_configs"`
	WebitelConfigs []*WebitelConfig `yaml:"webitel_configs" json:"webitel_configs"`
}

type Authorization struct {
	Header string `yaml:"header,omitempty" json:"header,omitempty"`
	Value  string `yaml:"value,omitempty" json:"value,omitempty"`
}

// secret returns value, or the content of the env variable when value is empty.
func secret(value, env string) string {
	if value != "" || env == "" {
		return value
	}

	return os.Getenv(env)
}

type HipChatConfig struct {
	URL          string        `yaml:"url" json:"url"`
	AuthToken    string        `yaml:"auth_token" json:"-"`
	AuthTokenEnv string        `yaml:"auth_token_env" json:"auth_token_env"`
	Username     string        `yaml:"username" json:"username"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (c *HipChatConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	*c = DefaultHipChatConfig
	type plain HipChatConfig
	if err := unmarshal((*plain)(c)); err != nil {
		return err
	}

	return nil
}

func (c *HipChatConfig) Token() string {
	return secret(c.AuthToken, c.AuthTokenEnv)
}

type SlackConfig struct {
	// URL overrides the Slack Web API endpoint, e.g. for a proxy.
	URL      string        `yaml:"url" json:"url"`
	Token    string        `yaml:"token" json:"-"`
	TokenEnv string        `yaml:"token_env" json:"token_env"`
	Username string        `yaml:"username" json:"username"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout"`
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (c *SlackConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	*c = DefaultSlackConfig
	type plain SlackConfig
	if err := unmarshal((*plain)(c)); err != nil {
		return err
	}

	return nil
}

func (c *SlackConfig) BotToken() string {
	return secret(c.Token, c.TokenEnv)
}

type WebitelConfig struct {
	URL           string         `yaml:"url" json:"url"`
	Authorization *Authorization `yaml:"authorization,omitempty" json:"-"`

	QueueID int `yaml:"queue_id,omitempty" json:"queue_id,omitempty"`
	TypeID  int `yaml:"type_id,omitempty" json:"type_id,omitempty"`
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (c *WebitelConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	*c = DefaultWebitelConfig
	c.Authorization = &Authorization{Header: DefaultWebitelConfig.Authorization.Header}
	type plain WebitelConfig
	if err := unmarshal((*plain)(c)); err != nil {
		return err
	}

	return nil
}
