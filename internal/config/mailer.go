package config

type MailerConfig struct {
	Env      string `yaml:"env" env:"ENV" env-default:"local"`
	RabbitMQ `yaml:"rabbitmq"`
	SMTP     `yaml:"smtp"`
}

type SMTP struct {
	Host     string `yaml:"host" env:"SMTP_HOST" env-required:"true"`
	Port     int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	Username string `yaml:"username" env:"SMTP_EMAIL" env-required:"true"`
	Password string `yaml:"password" env:"SMTP_PASSWORD" env-required:"true"`
	From     string `yaml:"from" env:"SMTP_FROM"`
}

func MustLoadMailer(configPath string) *MailerConfig {
	var cfg MailerConfig

	if err := read(configPath, &cfg); err != nil {
		panic(err.Error())
	}

	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.Username
	}

	return &cfg
}
