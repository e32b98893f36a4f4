package configloader

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Bootstrap 是配置文件的根结构，对应 configs/config.yaml。
type Bootstrap struct {
	Server        ServerConfig        `json:"server"`
	Data          DataConfig          `json:"data"`
	Observability ObservabilityConfig `json:"observability"`
}

// ServerConfig 描述 HTTP 服务器与 Handler 行为。
type ServerConfig struct {
	HTTP             HTTPConfig     `json:"http"`
	Handlers         HandlersConfig `json:"handlers"`
	MetadataPrefixes []string       `json:"metadata_prefixes" validate:"dive,required"`
}

// HTTPConfig 描述 HTTP 监听参数。
type HTTPConfig struct {
	Network string   `json:"network" validate:"omitempty,oneof=tcp tcp4 tcp6 unix"`
	Addr    string   `json:"addr" validate:"required"`
	Timeout Duration `json:"timeout" validate:"gte=0"`
}

// HandlersConfig 按 Handler 类型配置超时。
type HandlersConfig struct {
	DefaultTimeout Duration `json:"default_timeout" validate:"gte=0"`
	CommandTimeout Duration `json:"command_timeout" validate:"gte=0"`
	QueryTimeout   Duration `json:"query_timeout" validate:"gte=0"`
}

// DataConfig 聚合数据源配置。
type DataConfig struct {
	Postgres DatabaseConfig `json:"postgres"`
}

// DatabaseConfig 描述 PostgreSQL 连接池参数。
type DatabaseConfig struct {
	DSN                      string            `json:"dsn" validate:"required"`
	MaxOpenConns             int32             `json:"max_open_conns" validate:"gte=0"`
	MinOpenConns             int32             `json:"min_open_conns" validate:"gte=0"`
	MaxConnLifetime          Duration          `json:"max_conn_lifetime" validate:"gte=0"`
	MaxConnIdleTime          Duration          `json:"max_conn_idle_time" validate:"gte=0"`
	HealthCheckPeriod        Duration          `json:"health_check_period" validate:"gte=0"`
	Schema                   string            `json:"schema" validate:"omitempty,max=63"`
	EnablePreparedStatements bool              `json:"enable_prepared_statements"`
	Transaction              TransactionConfig `json:"transaction"`
}

// TransactionConfig 对应 txmanager.Config。
type TransactionConfig struct {
	DefaultIsolation string   `json:"default_isolation" validate:"omitempty,oneof=read_committed repeatable_read serializable"`
	DefaultTimeout   Duration `json:"default_timeout" validate:"gte=0"`
	LockTimeout      Duration `json:"lock_timeout" validate:"gte=0"`
	MaxRetries       int      `json:"max_retries" validate:"gte=0,lte=10"`
	MetricsEnabled   *bool    `json:"metrics_enabled"`
}

// ObservabilityConfig 描述追踪与指标导出。
type ObservabilityConfig struct {
	GlobalAttributes map[string]string `json:"global_attributes"`
	Tracing          *TracingConfig    `json:"tracing"`
	Metrics          *MetricsConfig    `json:"metrics"`
}

// TracingConfig 描述 Trace 导出参数。
type TracingConfig struct {
	Enabled            bool              `json:"enabled"`
	Exporter           string            `json:"exporter" validate:"omitempty,oneof=stdout otlp_grpc otlp_http gcp"`
	Endpoint           string            `json:"endpoint"`
	Headers            map[string]string `json:"headers"`
	Insecure           bool              `json:"insecure"`
	SamplingRatio      float64           `json:"sampling_ratio" validate:"gte=0,lte=1"`
	BatchTimeout       Duration          `json:"batch_timeout" validate:"gte=0"`
	ExportTimeout      Duration          `json:"export_timeout" validate:"gte=0"`
	MaxQueueSize       int               `json:"max_queue_size" validate:"gte=0"`
	MaxExportBatchSize int               `json:"max_export_batch_size" validate:"gte=0"`
	Required           bool              `json:"required"`
	ServiceName        string            `json:"service_name"`
	ServiceVersion     string            `json:"service_version"`
	Environment        string            `json:"environment"`
	Attributes         map[string]string `json:"attributes"`
}

// MetricsConfig 描述 Metric 导出参数。
type MetricsConfig struct {
	Enabled             bool              `json:"enabled"`
	Exporter            string            `json:"exporter" validate:"omitempty,oneof=stdout otlp_grpc otlp_http gcp"`
	Endpoint            string            `json:"endpoint"`
	Headers             map[string]string `json:"headers"`
	Insecure            bool              `json:"insecure"`
	Interval            Duration          `json:"interval" validate:"gte=0"`
	DisableRuntimeStats bool              `json:"disable_runtime_stats"`
	Required            bool              `json:"required"`
	ResourceAttributes  map[string]string `json:"resource_attributes"`
}

// Duration 以 Go duration 字符串（如 "5s"、"1m30s"）出现在配置文件中。
type Duration time.Duration

// Duration 返回 time.Duration。
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// String 实现 fmt.Stringer。
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalJSON 输出 duration 字符串。
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON 接受 duration 字符串；纯数字按秒解析。
func (d *Duration) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		*d = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := time.ParseDuration(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return fmt.Errorf("invalid duration %s: %w", raw, err)
	}
	*d = Duration(seconds * float64(time.Second))
	return nil
}
