// Package config turns a viper instance holding an analyzer job input into a validated run configuration.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bnema/notebook-runner-cli/internal/domain"
	"github.com/bnema/notebook-runner-cli/internal/ports"
)

const EnvPrefix = "NBR"

const (
	EndpointInput  = "input"
	EndpointOutput = "output"
)

const (
	keyInputHostname        = "config.input_hostname"
	keyInputToken           = "config.input_handler_http_service_api_token"
	keyInputIsHub           = "config.input_handler_http_is_jupyterhub"
	keyInputPaths           = "config.input_paths"
	keyInputExecuteRemotely = "config.input_handler_http_execute_remotely"
	keyOutputHostname       = "config.output_hostname"
	keyOutputToken          = "config.output_handler_http_service_api_token"
	keyOutputIsHub          = "config.output_handler_http_is_jupyterhub"
	keyOutputFolder         = "config.output_folder"
	keyOnlyHTML             = "config.any_only_html"
	keyUser                 = "config.any_handler_http_user"
	keyServerName           = "config.server_name"
	keyKernelName           = "config.kernel_name"
	keyKernelTimeout        = "config.kernel_timeout"
	keyS3Endpoint           = "config.s3_endpoint"
	keyS3AccessKey          = "config.s3_access_key"
	keyS3SecretKey          = "config.s3_secret_key"
	keyS3Region             = "config.s3_region"
	keyS3UseSSL             = "config.s3_use_ssl"
	keyData                 = "data"
	keyDataType             = "datatype"
	keyOrganisation         = "parameters.organisation"
	keyParameterUser        = "parameters.user"
	refSuffix               = "_ref"
	defaultKernelName       = "python3"
)

// ObjectStore holds the S3 settings used when a hostname is an s3:// URL.
type ObjectStore struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

// New returns a viper instance with defaults and NBR_ environment overrides.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyOnlyHTML, true)
	v.SetDefault(keyInputIsHub, false)
	v.SetDefault(keyOutputIsHub, false)
	v.SetDefault(keyInputExecuteRemotely, false)
	v.SetDefault(keyServerName, domain.DefaultServerName)
	v.SetDefault(keyKernelName, defaultKernelName)
	v.SetDefault(keyKernelTimeout, "0s")
	v.SetDefault(keyS3UseSSL, true)
	return v
}

// ReadFile merges a job input file (JSON, TOML or YAML by extension) into v.
func ReadFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read job input %s: %w", path, err)
	}
	return nil
}

// Load validates the job input and resolves token references through secrets, which may be nil.
func Load(ctx context.Context, v *viper.Viper, secrets ports.SecretStore) (domain.RunConfig, error) {
	if v == nil {
		return domain.RunConfig{}, errors.New("config is nil")
	}

	input, err := LoadEndpoint(ctx, v, secrets, EndpointInput)
	if err != nil {
		return domain.RunConfig{}, err
	}
	output, err := LoadEndpoint(ctx, v, secrets, EndpointOutput)
	if err != nil {
		return domain.RunConfig{}, err
	}

	paths := nonEmpty(v.GetStringSlice(keyInputPaths))
	if len(paths) == 0 {
		return domain.RunConfig{}, &domain.ConfigError{Key: "input_paths", Reason: "you must provide the list of paths of the notebooks you want to run"}
	}

	folder := strings.TrimSpace(v.GetString(keyOutputFolder))
	if folder == "" {
		return domain.RunConfig{}, &domain.ConfigError{Key: "output_folder", Reason: "you must provide an output folder path in which executed notebooks will be stored"}
	}

	data := v.GetString(keyData)
	if strings.TrimSpace(data) == "" {
		return domain.RunConfig{}, &domain.ConfigError{Key: keyData, Reason: "data is missing"}
	}

	timeout, err := kernelTimeout(v)
	if err != nil {
		return domain.RunConfig{}, err
	}

	kernelName := strings.TrimSpace(v.GetString(keyKernelName))
	if kernelName == "" {
		kernelName = defaultKernelName
	}

	return domain.RunConfig{
		Input:           input,
		Output:          output,
		InputPaths:      paths,
		OutputFolder:    folder,
		ExecuteRemotely: v.GetBool(keyInputExecuteRemotely),
		OnlyHTML:        v.GetBool(keyOnlyHTML),
		Observable: domain.Observable{
			Organisation: v.GetString(keyOrganisation),
			User:         v.GetString(keyParameterUser),
			DataType:     v.GetString(keyDataType),
			Data:         data,
		},
		KernelName:    kernelName,
		KernelTimeout: timeout,
	}, nil
}

// LoadEndpoint validates one endpoint of the job input without requiring the rest of it.
func LoadEndpoint(ctx context.Context, v *viper.Viper, secrets ports.SecretStore, name string) (domain.EndpointConfig, error) {
	if v == nil {
		return domain.EndpointConfig{}, errors.New("config is nil")
	}

	var hostnameKey, tokenKey, hubKey string
	switch name {
	case EndpointInput:
		hostnameKey, tokenKey, hubKey = keyInputHostname, keyInputToken, keyInputIsHub
	case EndpointOutput:
		hostnameKey, tokenKey, hubKey = keyOutputHostname, keyOutputToken, keyOutputIsHub
	default:
		return domain.EndpointConfig{}, fmt.Errorf("unknown endpoint %q", name)
	}

	token, err := resolveToken(ctx, v, tokenKey, secrets)
	if err != nil {
		return domain.EndpointConfig{}, err
	}

	return domain.NewEndpointConfig(domain.EndpointOptions{
		Name:           name,
		Hostname:       v.GetString(hostnameKey),
		Token:          token,
		IsMultiUserHub: v.GetBool(hubKey),
		User:           v.GetString(keyUser),
		ServerName:     v.GetString(keyServerName),
	})
}

func LoadObjectStore(v *viper.Viper) ObjectStore {
	return ObjectStore{
		Endpoint:  v.GetString(keyS3Endpoint),
		AccessKey: v.GetString(keyS3AccessKey),
		SecretKey: v.GetString(keyS3SecretKey),
		Region:    v.GetString(keyS3Region),
		UseSSL:    v.GetBool(keyS3UseSSL),
	}
}

// resolveToken prefers the literal token and otherwise reads the <key>_ref secret.
func resolveToken(ctx context.Context, v *viper.Viper, key string, secrets ports.SecretStore) (string, error) {
	if token := strings.TrimSpace(v.GetString(key)); token != "" {
		return token, nil
	}

	ref := strings.TrimSpace(v.GetString(key + refSuffix))
	if ref == "" {
		return "", nil
	}
	name := strings.TrimPrefix(key, "config.") + refSuffix
	if secrets == nil {
		return "", &domain.ConfigError{Key: name, Reason: "no secret store is configured"}
	}

	token, err := secrets.Get(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return "", &domain.ConfigError{Key: name, Reason: fmt.Sprintf("no token stored under %q", ref)}
		}
		return "", fmt.Errorf("resolve %s: %w", name, err)
	}
	return token, nil
}

func kernelTimeout(v *viper.Viper) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(keyKernelTimeout))
	if raw == "" {
		return 0, nil
	}

	timeout, err := time.ParseDuration(raw)
	if err != nil {
		return 0, &domain.ConfigError{Key: "kernel_timeout", Reason: fmt.Sprintf("invalid duration %q", raw)}
	}
	if timeout < 0 {
		return 0, &domain.ConfigError{Key: "kernel_timeout", Reason: "duration must not be negative"}
	}
	return timeout, nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			out = append(out, value)
		}
	}
	return out
}
