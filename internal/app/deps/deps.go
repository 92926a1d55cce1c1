package deps

import (
	"context"
	"fmt"
	"sync"
	"thursday/internal/config"
	dl "thursday/internal/core/domain/logging"
	"thursday/internal/core/domain/reminder"
	dbreminder "thursday/internal/db/reminder"
	"thursday/internal/db/sqlite"
	intentdetector "thursday/internal/implementations/intent_detector"
	"thursday/internal/implementations/logging"
	"thursday/internal/implementations/metrics"
	"thursday/internal/implementations/notifier"
	randomstringgenerator "thursday/internal/implementations/random_string_generator"
	remindertags "thursday/internal/implementations/reminder_tags"
	schedulerlease "thursday/internal/implementations/scheduler_lease"
	timeexpressionparser "thursday/internal/implementations/time_expression_parser"
	"thursday/internal/rabbitmq"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/r3labs/sse/v2"
)

const schedulerLeaseKey = "thursday:scheduler:lease"

// Pinger reports whether the reminder store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger

	DB              *pgxpool.Pool
	Redis           *redis.Client
	Rabbitmq        *rabbitmq.Connection
	RabbitmqChannel *rabbitmq.Channel
	SseServer       *sse.Server
	Metrics         *metrics.Prometheus

	Now func() time.Time

	ReminderRepository reminder.Repository
	StorePinger        Pinger

	SchedulerLease reminder.Lease

	PrimaryChannel   reminder.Channel
	SecondaryChannel reminder.Channel
	Notifier         reminder.Notifier

	TimeExpressionParser reminder.TimeExpressionParser
	IntentDetector       reminder.IntentDetector
	TagExtractor         reminder.TagExtractor
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.initAwsConfig()
	deps.Now = time.Now

	closeLogger := deps.initLogger()
	deps.initMetrics()
	closeStore := deps.initStore()
	closeRedisClient := deps.initRedisClient()
	closeRabbitmq := deps.initRabbitmq()
	closeSseServer := deps.initSseServer()

	deps.initSchedulerLease()

	deps.PrimaryChannel = deps.initChannel(deps.Config.NotifyPrimary)
	deps.SecondaryChannel = deps.initChannel(deps.Config.NotifySecondary)
	deps.Notifier = notifier.New(deps.Logger, deps.PrimaryChannel, deps.SecondaryChannel, deps.Metrics)

	deps.TimeExpressionParser = timeexpressionparser.NewInLocation(time.Local)
	deps.IntentDetector = intentdetector.New(deps.TimeExpressionParser)
	deps.TagExtractor = remindertags.New()

	return deps, func() {
		closeFuncs := []func(){
			closeSseServer,
			closeRabbitmq,
			closeRedisClient,
			closeStore,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
		closeLogger()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initAwsConfig() {
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AwsAccessKey,
				deps.Config.AwsSecretKey,
				"",
			),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	)
	if err != nil {
		panic(err)
	}
	deps.AwsConfig = cfg
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger(deps.Config.IsTestMode)
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initMetrics() {
	m, err := metrics.NewPrometheus()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not register metrics.", dl.Entry("err", err))
		panic(err)
	}
	deps.Metrics = m
}

func (deps *Deps) initStore() func() {
	if deps.Config.StoreDriver == config.StoreDriverPostgres {
		return deps.initPgxPool()
	}
	return deps.initSQLite()
}

func (deps *Deps) initSQLite() func() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repository, err := sqlite.Open(ctx, deps.Config.SQLitePath)
	if err != nil {
		deps.Logger.Error(
			context.Background(),
			"Could not open SQLite reminder store.",
			dl.Entry("path", deps.Config.SQLitePath),
			dl.Entry("err", err),
		)
		panic(err)
	}
	deps.ReminderRepository = repository
	deps.StorePinger = repository
	deps.Logger.Info(context.Background(), "SQLite reminder store opened.", dl.Entry("path", deps.Config.SQLitePath))
	return func() {
		deps.Logger.Info(context.Background(), "Closing SQLite reminder store.")
		if err := repository.Close(); err != nil {
			deps.Logger.Error(context.Background(), "Could not close SQLite reminder store.", dl.Entry("err", err))
			return
		}
		deps.Logger.Info(context.Background(), "SQLite reminder store closed.")
	}
}

func (deps *Deps) initPgxPool() func() {
	if err := dbreminder.ApplyMigrations(deps.Config.PostgresqlURL); err != nil {
		deps.Logger.Error(context.Background(), "Could not apply DB migrations.", dl.Entry("err", err))
		panic(err)
	}
	db, err := pgxpool.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = db
	deps.ReminderRepository = dbreminder.NewPgxReminderRepository(db)
	deps.StorePinger = db
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		db.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initRedisClient() func() {
	if deps.Config.RedisURL == "" {
		deps.Logger.Info(context.Background(), "Redis is disabled, scheduler lease is process-local.")
		return func() {}
	}
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

func (deps *Deps) initRabbitmq() func() {
	if deps.Config.RabbitmqURL == "" {
		deps.Logger.Info(context.Background(), "RabbitMQ is disabled.")
		return func() {}
	}
	connection, err := rabbitmq.Dial(deps.Config.RabbitmqURL, deps.Logger)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to RabbitMQ.", dl.Entry("err", err))
		panic("could not connect to RabbitMQ")
	}
	channel, err := connection.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}
	if err := channel.DeclareQueue(deps.Config.RabbitmqNotificationQueue); err != nil {
		deps.Logger.Error(
			context.Background(),
			"Could not declare RabbitMQ queue.",
			dl.Entry("queue", deps.Config.RabbitmqNotificationQueue),
			dl.Entry("err", err),
		)
		panic(err)
	}
	deps.Rabbitmq = connection
	deps.RabbitmqChannel = channel
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down RabbitMQ connection.")
		channel.Close()
		connection.Close()
		deps.Logger.Info(context.Background(), "RabbitMQ connection shut down.")
	}
}

func (deps *Deps) initSseServer() func() {
	deps.SseServer = sse.New()
	deps.SseServer.AutoStream = false
	deps.SseServer.AutoReplay = false
	deps.SseServer.CreateStream(notifier.RemindersStream)
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down SSE server.")
		deps.SseServer.Close()
		deps.Logger.Info(context.Background(), "SSE server shut down.")
	}
}

func (deps *Deps) initSchedulerLease() {
	if deps.Redis == nil {
		deps.SchedulerLease = schedulerlease.NewLocal()
		return
	}
	deps.SchedulerLease = schedulerlease.NewRedis(
		deps.Redis,
		deps.Logger,
		schedulerLeaseKey,
		randomstringgenerator.NewGenerator().GenerateLeaseToken(),
		deps.Config.ReminderSchedulerLeaseTTL,
	)
}

func (deps *Deps) initChannel(name string) reminder.Channel {
	switch name {
	case notifier.DiscordChannelName:
		if deps.Config.DiscordWebhookURL == "" {
			return deps.unconfigured(name)
		}
		return notifier.NewDiscord(
			deps.Config.DiscordWebhookURL,
			deps.Config.DiscordUsername,
			deps.Config.NotifyRequestTimeout,
		)
	case notifier.WhatsAppChannelName:
		return notifier.NewWhatsApp(
			deps.Config.TwilioBaseURL,
			notifier.TwilioSettings{
				AccountSID: deps.Config.TwilioAccountSID,
				AuthToken:  deps.Config.TwilioAuthToken,
				From:       deps.Config.TwilioWhatsAppFrom,
				To:         deps.Config.TwilioWhatsAppTo,
			},
			deps.Config.WhatsAppPartDelay,
			deps.Config.NotifyRequestTimeout,
		)
	case notifier.EmailChannelName:
		if deps.Config.EmailRecipient == "" {
			return deps.unconfigured(name)
		}
		return notifier.NewEmail(deps.AwsConfig, deps.Config.EmailSender, deps.Config.EmailRecipient)
	case notifier.WebChannelName:
		return notifier.NewWeb(deps.SseServer, deps.Now)
	case notifier.AMQPChannelName:
		if deps.RabbitmqChannel == nil {
			return deps.unconfigured(name)
		}
		return notifier.NewAMQP(deps.Logger, deps.RabbitmqChannel, deps.Config.RabbitmqNotificationQueue, deps.Now)
	default:
		return deps.unconfigured(name)
	}
}

func (deps *Deps) unconfigured(name string) reminder.Channel {
	deps.Logger.Warning(
		context.Background(),
		fmt.Sprintf("Notification channel %q is not configured, sends will fail.", name),
		dl.Entry("channel", name),
	)
	return notifier.NewUnconfigured(name)
}
