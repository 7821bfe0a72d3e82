package config

type (
	DriverConfig struct {
		PostgresDB PostgresDB
		MongoDB    MongoDB
		Redis      Redis
		RabbitMQ   RabbitMQ
		Minio      Minio
		Logger     Logger
	}
	PostgresDB struct {
		Host         string
		Port         string
		Username     string
		Password     string
		DBName       string
		MaxOpenConns int
		MaxIdleConns int
	}
	MongoDB struct {
		Host     string
		Port     string
		Username string
		Password string
		DbName   string
	}
	Redis struct {
		Host     string
		Port     string
		Password string
	}
	RabbitMQ struct {
		Host     string
		Port     string
		Username string
		Password string
	}
	Minio struct {
		Host       string
		Port       string
		Username   string
		Password   string
		BucketName string
		UseSSL     bool
	}
	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}
)

type InternalConfig struct {
	App        App
	Billing    Billing
	DrugSafety DrugSafety
}

type App struct {
	Env             string
	Port            string
	Version         string
	Timezone        string
	EndpointPrefix  string
	MaxRequests     int
	ShutdownTimeout int
}

type DrugSafety struct {
	BaseURL        string
	TimeoutSeconds int
}

type Billing struct {
	Currency              string
	LockTTLInSeconds      int
	RequestTimeoutSeconds int
	DispatchQueueName     string
}
