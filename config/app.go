package config

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	Env         string `env:"APP_ENV" default:"dev"`
	DBMaxConns  int    `env:"DB_MAX_CONNS" default:"10"`
	SweepMins   int    `env:"OVERDUE_SWEEP_MINS" default:"60"`
}
