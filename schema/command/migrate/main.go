package main

import (
	"fmt"
	"strings"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/spf13/viper"

	"github.com/scan2clean/intake-api/schema"
)

func init() {
	viper.AutomaticEnv()
	viper.SetEnvPrefix("scan2clean")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = viper.BindEnv("mongo.conn", "MONGO_URL")
	viper.SetDefault("mongo.conn", "mongodb://127.0.0.1:27017/scan2clean")
	viper.SetDefault("mongo.database", "scan2clean")
}

func main() {
	if conn := viper.GetString("orm.conn"); conn != "" {
		if err := migrateORM(conn); err != nil {
			panic(err)
		}
	}

	fmt.Println("index mongo collection", schema.RequestCollection)
	indexer := schema.NewMongoDBIndexer(viper.GetString("mongo.conn"), viper.GetString("mongo.database"))
	defer indexer.Close()
	indexer.IndexAll()
}

func migrateORM(conn string) error {
	db, err := gorm.Open("postgres", conn)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Println("migrate table", schema.RequestTable)
	if err := db.AutoMigrate(&schema.PickupRequest{}).Error; err != nil {
		return err
	}

	return db.Model(&schema.PickupRequest{}).AddIndex("pickup_requests_status", "status").Error
}
