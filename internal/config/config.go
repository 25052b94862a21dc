// internal/config/config.go
package config

import (
	"log"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	App        AppConfig
	Cache      CacheConfig
	Engine     EngineConfig
	Suppliers  SupplierConfig
	Ingest     IngestConfig
	Storage    StorageConfig
	Drive      DriveConfig
	Warehouses []WarehouseConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type AppConfig struct {
	LogLevel  string
	UploadDir string
	DataDir   string
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	ExportTTLSeconds int
}

// EngineConfig carries the business constants of the decision engine. The
// source system hardcoded all of these; they are configuration here so the
// rules stay auditable without code changes.
type EngineConfig struct {
	VelocityWindowMonths float64
	DaysOfStock          float64
	MinAssemblyQty       float64
	MinAssemblyCeiling   float64
	MonthlyMultiple      float64
	MaxAssemblyQty       float64
	ExcludedAssemblySKUs []string
	TransferSourceMin    float64
	TransferDestMin      float64
	ABCClassACut         float64
	ABCClassBCut         float64
	LeadTimeBufferDays   float64
}

type SupplierConfig struct {
	ExclusionFile string
}

type IngestConfig struct {
	Source      string // local, s3 or drive
	PollSeconds int
	MaxParallel int64
	AdminPort   string
	WatchLocal  string
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

type DriveConfig struct {
	CredentialsFile string
	FolderID        string
}

// WarehouseConfig names one warehouse group: the location set used for
// inventory position, the location-prefix used by the PO engine, and the
// pair of locations the transfer recommender balances between.
type WarehouseConfig struct {
	Code         string
	Locations    []string
	TransferFrom string
	TransferTo   string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 60)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 60)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("LOG_LEVEL", "info")
		viper.SetDefault("APP_UPLOAD_DIR", "./data/uploads")
		viper.SetDefault("APP_DATA_DIR", "./data/output")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_EXPORT_TTL_SECONDS", 300)

		viper.SetDefault("ENGINE_VELOCITY_WINDOW_MONTHS", 6.0)
		viper.SetDefault("ENGINE_DAYS_OF_STOCK", 30.0)
		viper.SetDefault("ENGINE_MIN_ASSEMBLY_QTY", 2.0)
		viper.SetDefault("ENGINE_MIN_ASSEMBLY_CEILING", 10.0)
		viper.SetDefault("ENGINE_MONTHLY_MULTIPLE", 3.0)
		viper.SetDefault("ENGINE_MAX_ASSEMBLY_QTY", 1000.0)
		viper.SetDefault("ENGINE_EXCLUDED_ASSEMBLY_SKUS", "2444,4300,3818,2582")
		viper.SetDefault("ENGINE_TRANSFER_SOURCE_MIN", 20.0)
		viper.SetDefault("ENGINE_TRANSFER_DEST_MIN", 20.0)
		viper.SetDefault("ENGINE_ABC_CLASS_A_CUT", 0.70)
		viper.SetDefault("ENGINE_ABC_CLASS_B_CUT", 0.90)
		viper.SetDefault("ENGINE_LEAD_TIME_BUFFER_DAYS", 3.0)

		viper.SetDefault("SUPPLIER_EXCLUSION_FILE", "./data/excluded_suppliers.txt")

		viper.SetDefault("INGEST_SOURCE", "local")
		viper.SetDefault("INGEST_POLL_SECONDS", 300)
		viper.SetDefault("INGEST_MAX_PARALLEL", 4)
		viper.SetDefault("INGEST_ADMIN_PORT", "8081")
		viper.SetDefault("INGEST_WATCH_LOCAL", "./data/incoming")

		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_BUCKET", "reports")
		viper.SetDefault("STORAGE_PREFIX", "")
		viper.SetDefault("STORAGE_USE_SSL", true)

		viper.SetDefault("DRIVE_CREDENTIALS_FILE", "")
		viper.SetDefault("DRIVE_FOLDER_ID", "")

		viper.SetDefault("WAREHOUSES", "NC,CA")

		// Read from environment variables
		viper.AutomaticEnv()

		// Ensure upload and data directories exist
		ensureDir(viper.GetString("APP_UPLOAD_DIR"))
		ensureDir(viper.GetString("APP_DATA_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			App: AppConfig{
				LogLevel:  viper.GetString("LOG_LEVEL"),
				UploadDir: viper.GetString("APP_UPLOAD_DIR"),
				DataDir:   viper.GetString("APP_DATA_DIR"),
			},
			Cache: CacheConfig{
				Enabled:          viper.GetBool("CACHE_ENABLED"),
				RedisURL:         viper.GetString("REDIS_URL"),
				RedisHost:        viper.GetString("REDIS_HOST"),
				RedisPort:        viper.GetString("REDIS_PORT"),
				RedisPassword:    viper.GetString("REDIS_PASSWORD"),
				RedisDB:          viper.GetInt("REDIS_DB"),
				ExportTTLSeconds: viper.GetInt("CACHE_EXPORT_TTL_SECONDS"),
			},
			Engine: EngineConfig{
				VelocityWindowMonths: viper.GetFloat64("ENGINE_VELOCITY_WINDOW_MONTHS"),
				DaysOfStock:          viper.GetFloat64("ENGINE_DAYS_OF_STOCK"),
				MinAssemblyQty:       viper.GetFloat64("ENGINE_MIN_ASSEMBLY_QTY"),
				MinAssemblyCeiling:   viper.GetFloat64("ENGINE_MIN_ASSEMBLY_CEILING"),
				MonthlyMultiple:      viper.GetFloat64("ENGINE_MONTHLY_MULTIPLE"),
				MaxAssemblyQty:       viper.GetFloat64("ENGINE_MAX_ASSEMBLY_QTY"),
				ExcludedAssemblySKUs: splitList(viper.GetString("ENGINE_EXCLUDED_ASSEMBLY_SKUS")),
				TransferSourceMin:    viper.GetFloat64("ENGINE_TRANSFER_SOURCE_MIN"),
				TransferDestMin:      viper.GetFloat64("ENGINE_TRANSFER_DEST_MIN"),
				ABCClassACut:         viper.GetFloat64("ENGINE_ABC_CLASS_A_CUT"),
				ABCClassBCut:         viper.GetFloat64("ENGINE_ABC_CLASS_B_CUT"),
				LeadTimeBufferDays:   viper.GetFloat64("ENGINE_LEAD_TIME_BUFFER_DAYS"),
			},
			Suppliers: SupplierConfig{
				ExclusionFile: viper.GetString("SUPPLIER_EXCLUSION_FILE"),
			},
			Ingest: IngestConfig{
				Source:      viper.GetString("INGEST_SOURCE"),
				PollSeconds: viper.GetInt("INGEST_POLL_SECONDS"),
				MaxParallel: viper.GetInt64("INGEST_MAX_PARALLEL"),
				AdminPort:   viper.GetString("INGEST_ADMIN_PORT"),
				WatchLocal:  viper.GetString("INGEST_WATCH_LOCAL"),
			},
			Storage: StorageConfig{
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				Prefix:    viper.GetString("STORAGE_PREFIX"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			},
			Drive: DriveConfig{
				CredentialsFile: viper.GetString("DRIVE_CREDENTIALS_FILE"),
				FolderID:        viper.GetString("DRIVE_FOLDER_ID"),
			},
			Warehouses: loadWarehouses(),
		}
	})

	return instance
}

// loadWarehouses builds the warehouse list from WAREHOUSES plus per-code
// overrides, e.g. WAREHOUSE_NC_LOCATIONS="NC - Main,NC - Armory,NC - FFL".
func loadWarehouses() []WarehouseConfig {
	codes := splitList(viper.GetString("WAREHOUSES"))
	warehouses := make([]WarehouseConfig, 0, len(codes))
	for _, code := range codes {
		key := strings.ToUpper(code)
		viper.SetDefault("WAREHOUSE_"+key+"_LOCATIONS", defaultLocations(code))
		viper.SetDefault("WAREHOUSE_"+key+"_TRANSFER_FROM", code+" - Armory")
		viper.SetDefault("WAREHOUSE_"+key+"_TRANSFER_TO", code+" - Main")
		warehouses = append(warehouses, WarehouseConfig{
			Code:         code,
			Locations:    splitList(viper.GetString("WAREHOUSE_" + key + "_LOCATIONS")),
			TransferFrom: viper.GetString("WAREHOUSE_" + key + "_TRANSFER_FROM"),
			TransferTo:   viper.GetString("WAREHOUSE_" + key + "_TRANSFER_TO"),
		})
	}
	return warehouses
}

func defaultLocations(code string) string {
	return strings.Join([]string{
		code + " - Main",
		code + " - Armory",
		code + " - FFL",
	}, ",")
}

// Warehouse returns the configuration for a warehouse code, matching
// case-insensitively. ok is false for an unknown code.
func (c *Config) Warehouse(code string) (WarehouseConfig, bool) {
	for _, wh := range c.Warehouses {
		if strings.EqualFold(wh.Code, code) {
			return wh, true
		}
	}
	return WarehouseConfig{}, false
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
