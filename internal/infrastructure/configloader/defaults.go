package configloader

const (
	// defaultConfPath 是未指定 -conf 与 CONF_PATH 时的配置目录。
	defaultConfPath = "configs"
	// defaultServiceName 在 SERVICE_NAME 缺失时使用。
	defaultServiceName = "person"
	// defaultServiceVersion 在 SERVICE_VERSION 缺失时使用。
	defaultServiceVersion = "dev"
	// defaultEnvironment 在 APP_ENV 缺失时使用。
	defaultEnvironment = "development"
	// defaultMetadataPrefix 是透传 metadata 的请求头前缀。
	defaultMetadataPrefix = "x-md-"
)

func resolveServiceName(v string) string {
	if v == "" {
		return defaultServiceName
	}
	return v
}

func resolveServiceVersion(v string) string {
	if v == "" {
		return defaultServiceVersion
	}
	return v
}

func resolveEnvironment(v string) string {
	if v == "" {
		return defaultEnvironment
	}
	return v
}

func resolveInstanceID(host string) string {
	if host == "" {
		return "unknown"
	}
	return host
}
