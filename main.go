package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/uber-go/tally"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/scan2clean/intake-api/api"
	"github.com/scan2clean/intake-api/logmodule"
	"github.com/scan2clean/intake-api/store"
	"github.com/scan2clean/intake-api/upload"
	"github.com/scan2clean/intake-api/utils"
)

const (
	defaultMongoConn     = "mongodb://127.0.0.1:27017/scan2clean"
	defaultMongoDatabase = "scan2clean"
	defaultPort          = "5000"
)

var (
	server       *api.Server
	requestStore store.RequestStore
)

func initLog() {
	logLevel, err := log.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(logLevel)
	}

	log.SetOutput(os.Stdout)

	log.SetFormatter(&prefixed.TextFormatter{
		ForceFormatting: true,
		FullTimestamp:   true,
	})
}

func loadConfig(file string) {
	// .env is optional and never overrides the real environment
	if err := godotenv.Load(); err == nil {
		fmt.Println("Loaded environment from .env")
	}

	// Config from file
	viper.SetConfigType("yaml")
	if file != "" {
		viper.SetConfigFile(file)
	}

	viper.AddConfigPath("/.config/")
	viper.AddConfigPath(".")
	err := viper.ReadInConfig()
	if err != nil {
		fmt.Println("No config file. Read config from env.")
		viper.AllowEmptyEnv(false)
	}

	// Config from env if possible
	viper.AutomaticEnv()
	viper.SetEnvPrefix("scan2clean")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// legacy variable names
	_ = viper.BindEnv("mongo.conn", "MONGO_URL")
	_ = viper.BindEnv("server.port", "PORT")

	viper.SetDefault("server.port", defaultPort)
	viper.SetDefault("mongo.conn", defaultMongoConn)
	viper.SetDefault("mongo.pool", 20)
	viper.SetDefault("store.driver", "mongo")
	viper.SetDefault("upload.driver", "disk")
	viper.SetDefault("upload.dir", "uploads")
	viper.SetDefault("upload.max_size", 10<<20)
	viper.SetDefault("public.dir", "public")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("metrics.interval", time.Minute)
	viper.SetDefault("minio.bucket", "uploads")
}

// mongoDatabase is the configured database, or the one named in the
// connection string
func mongoDatabase(conn string) string {
	if name := viper.GetString("mongo.database"); name != "" {
		return name
	}
	if cs, err := connstring.Parse(conn); err == nil && cs.Database != "" {
		return cs.Database
	}
	return defaultMongoDatabase
}

func newRequestStore(ctx context.Context) (store.RequestStore, error) {
	switch driver := viper.GetString("store.driver"); driver {
	case "mongo":
		conn := viper.GetString("mongo.conn")
		opts := options.Client().ApplyURI(conn)
		opts.SetMaxPoolSize(viper.GetUint64("mongo.pool"))
		mongoClient, err := mongo.NewClient(opts)
		if nil != err {
			return nil, fmt.Errorf("create mongo client with error: %s", err)
		}

		if err := mongoClient.Connect(ctx); nil != err {
			return nil, fmt.Errorf("connect mongo database with error: %s", err)
		}

		database := mongoDatabase(conn)
		log.WithField("prefix", "init").Infof("Using mongo database %s", database)
		return store.NewMongoStore(mongoClient, database), nil

	case "postgres":
		ormDB, err := gorm.Open("postgres", viper.GetString("orm.conn"))
		if err != nil {
			return nil, err
		}
		return store.NewORMStore(ormDB), nil

	case "memory":
		log.WithField("prefix", "init").Warn("Requests are kept in memory only")
		return store.NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func newUploadArea(ctx context.Context) (upload.Area, error) {
	switch driver := viper.GetString("upload.driver"); driver {
	case "disk":
		return upload.NewDiskArea(viper.GetString("upload.dir"))

	case "minio":
		area, err := upload.NewMinioArea(upload.MinioConfig{
			Endpoint:  viper.GetString("minio.endpoint"),
			AccessKey: viper.GetString("minio.access_key"),
			SecretKey: viper.GetString("minio.secret_key"),
			Bucket:    viper.GetString("minio.bucket"),
			Region:    viper.GetString("minio.region"),
			UseSSL:    viper.GetBool("minio.ssl"),
		})
		if err != nil {
			return nil, err
		}
		if err := area.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return area, nil

	default:
		return nil, fmt.Errorf("unknown upload driver %q", driver)
	}
}

func main() {
	var configFile string

	initialCtx, cancelInitialization := context.WithCancel(context.Background())

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Server is preparing to shutdown")

		if initialCtx != nil && cancelInitialization != nil {
			log.Info("Cancelling initialization")
			cancelInitialization()
			<-initialCtx.Done()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if server != nil {
			log.Info("Shutdown intake api server")
			if err := server.Shutdown(ctx); err != nil {
				log.Error("Server Shutdown:", err)
			}
		}

		if requestStore != nil {
			log.Info("Shutting down request store")
			requestStore.Close()
		}

		sentry.Flush(5 * time.Second)

		os.Exit(1)
	}()

	flag.StringVar(&configFile, "c", "./config.yaml", "[optional] path of configuration file")
	flag.Parse()

	loadConfig(configFile)

	initLog()

	// Sentry
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              viper.GetString("sentry.dsn"),
		AttachStacktrace: true,
		Environment:      viper.GetString("sentry.environment"),
		Dist:             viper.GetString("sentry.dist"),
	}); err != nil {
		log.Error(err)
	}
	log.WithField("prefix", "init").Info("Initialized sentry")

	utils.InitI18NBundle()
	log.WithField("prefix", "init").Info("Initialized i18n bundle")

	var err error
	requestStore, err = newRequestStore(initialCtx)
	if err != nil {
		log.Panic(err)
	}
	log.WithField("prefix", "init").Infof("Initialized %s request store", viper.GetString("store.driver"))

	uploads, err := newUploadArea(initialCtx)
	if err != nil {
		log.Panic(err)
	}
	log.WithField("prefix", "init").Infof("Initialized %s upload area", viper.GetString("upload.driver"))

	metrics, closer := tally.NewRootScope(tally.ScopeOptions{
		Prefix:   "scan2clean",
		Reporter: logmodule.NewStatsReporter("metrics"),
	}, viper.GetDuration("metrics.interval"))
	defer closer.Close()

	// Init http server
	server = api.NewServer(requestStore, uploads, metrics)
	log.WithField("prefix", "init").Info("Initialized http server")

	// Remove initial context
	initialCtx = nil
	cancelInitialization = nil

	log.Fatal(server.Run(":" + viper.GetString("server.port")))
}
