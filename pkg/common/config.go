/*
Copyright 2025 The helpdesk-responder-sim Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package common

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

const (
	defaultPort = 8000
	dummy       = "dummy"

	// Conventional response file names, kept as configuration defaults
	DefaultResponsesFile        = "responses.txt"
	DefaultDefaultResponsesFile = "default.txt"

	// Failure type constants
	FailureTypeRateLimit      = "rate_limit"
	FailureTypeServerError    = "server_error"
	FailureTypeInvalidRequest = "invalid_request"
)

type Configuration struct {
	// Port defines on which port the simulator runs
	Port int `yaml:"port" json:"port"`
	// ResponsesFile is the path to the keyword response file, records of
	// comma separated keywords followed by the response text
	ResponsesFile string `yaml:"responses-file" json:"responses-file"`
	// DefaultsFile is the path to the default response file, header-less
	// records used when no input word is recognized
	DefaultsFile string `yaml:"default-responses-file" json:"default-responses-file"`
	// Seed defines random seed for operations
	Seed int64 `yaml:"seed" json:"seed"`

	// MaxNumWorkers is the number of workers processing respond requests at
	// the same time
	MaxNumWorkers int `yaml:"max-num-workers" json:"max-num-workers"`

	// ReplyLatency time before a reply is returned, in milliseconds, used to
	// simulate a human agent typing
	ReplyLatency int `yaml:"reply-latency" json:"reply-latency"`
	// ReplyLatencyStdDev standard deviation for the reply latency, in
	// milliseconds, optional, default is 0, can't be more than 30% of
	// ReplyLatency, will not cause the actual latency to differ by more than
	// 70% from ReplyLatency
	ReplyLatencyStdDev int `yaml:"reply-latency-std-dev" json:"reply-latency-std-dev"`

	// FailureInjectionRate is the probability (0-100) of injecting failures
	FailureInjectionRate int `yaml:"failure-injection-rate" json:"failure-injection-rate"`
	// FailureTypes is a list of specific failure types to inject (empty means all types)
	FailureTypes []string `yaml:"failure-types" json:"failure-types"`

	// EnableEvents defines if served replies are published as events
	EnableEvents bool `yaml:"enable-events" json:"enable-events"`
	// ZMQEndpoint is the ZMQ address to publish reply events, the default value is tcp://localhost:5557
	ZMQEndpoint string `yaml:"zmq-endpoint" json:"zmq-endpoint"`
	// ZMQMaxConnectAttempts defines the maximum number (10) of retries when ZMQ connection fails
	ZMQMaxConnectAttempts uint `yaml:"zmq-max-connect-attempts" json:"zmq-max-connect-attempts"`
	// EventBatchSize is the maximum number of reply events to be sent together, defaults to 16
	EventBatchSize int `yaml:"event-batch-size" json:"event-batch-size"`

	// ArchivePath is an optional path to a SQLite database file in which
	// served replies are recorded, empty disables the archive
	ArchivePath string `yaml:"archive-path" json:"archive-path"`
	// ArchiveInMemory keeps the archive in memory instead of on disk, the
	// archive is then lost on shutdown
	ArchiveInMemory bool `yaml:"archive-in-memory" json:"archive-in-memory"`

	// SSLCertFile is the path to the SSL certificate file for HTTPS
	SSLCertFile string `yaml:"ssl-certfile" json:"ssl-certfile"`
	// SSLKeyFile is the path to the SSL private key file for HTTPS
	SSLKeyFile string `yaml:"ssl-keyfile" json:"ssl-keyfile"`
	// SelfSignedCerts enables automatic generation of self-signed certificates for HTTPS
	SelfSignedCerts bool `yaml:"self-signed-certs" json:"self-signed-certs"`
}

// Needed to parse values that contain multiple strings
type multiString struct {
	values []string
}

func (l *multiString) String() string {
	return strings.Join(l.values, " ")
}

func (l *multiString) Set(val string) error {
	l.values = append(l.values, val)
	return nil
}

func (l *multiString) Type() string {
	return "strings"
}

func newConfig() *Configuration {
	return &Configuration{
		Port:           defaultPort,
		ResponsesFile:  DefaultResponsesFile,
		DefaultsFile:   DefaultDefaultResponsesFile,
		Seed:           time.Now().UnixNano(),
		MaxNumWorkers:  5,
		ZMQEndpoint:    "tcp://localhost:5557",
		EventBatchSize: 16,
	}
}

func (c *Configuration) load(configFile string) error {
	configBytes, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("failed to read configuration file: %s", err)
	}

	if err := yaml.Unmarshal(configBytes, &c); err != nil {
		return fmt.Errorf("failed to unmarshal configuration: %s", err)
	}

	return nil
}

func (c *Configuration) validate() error {
	if c.Port <= 0 {
		return fmt.Errorf("invalid port '%d'", c.Port)
	}
	if c.ResponsesFile == "" {
		return errors.New("responses file path is empty")
	}
	if c.DefaultsFile == "" {
		return errors.New("default responses file path is empty")
	}
	if c.MaxNumWorkers < 1 {
		return errors.New("max num workers cannot be less than 1")
	}

	if c.ReplyLatency < 0 {
		return errors.New("reply latency cannot be negative")
	}
	if c.ReplyLatencyStdDev < 0 {
		return errors.New("reply latency standard deviation cannot be negative")
	}
	if float32(c.ReplyLatencyStdDev) > 0.3*float32(c.ReplyLatency) {
		return errors.New("reply latency standard deviation cannot be more than 30% of reply latency")
	}

	if c.FailureInjectionRate < 0 || c.FailureInjectionRate > 100 {
		return errors.New("failure injection rate should be between 0 and 100")
	}

	validFailureTypes := map[string]bool{
		FailureTypeRateLimit:      true,
		FailureTypeServerError:    true,
		FailureTypeInvalidRequest: true,
	}
	for _, failureType := range c.FailureTypes {
		if !validFailureTypes[failureType] {
			return fmt.Errorf("invalid failure type '%s', valid types are: %s, %s, %s", failureType,
				FailureTypeRateLimit, FailureTypeServerError, FailureTypeInvalidRequest)
		}
	}

	if c.EventBatchSize < 1 {
		return errors.New("event batch size cannot be less than 1")
	}
	if c.ZMQMaxConnectAttempts > 10 {
		return errors.New("zmq retries times cannot be more than 10")
	}

	if c.ArchiveInMemory && c.ArchivePath == "" {
		return errors.New("archive-path is required when archive-in-memory is set")
	}

	if (c.SSLCertFile == "") != (c.SSLKeyFile == "") {
		return errors.New("both ssl-certfile and ssl-keyfile must be provided together")
	}
	if c.SelfSignedCerts && (c.SSLCertFile != "" || c.SSLKeyFile != "") {
		return errors.New("cannot use both self-signed-certs and explicit ssl-certfile/ssl-keyfile")
	}

	return nil
}

// SSLEnabled returns true if SSL is enabled either via certificate files or self-signed certificates
func (c *Configuration) SSLEnabled() bool {
	return (c.SSLCertFile != "" && c.SSLKeyFile != "") || c.SelfSignedCerts
}

// ParseCommandParamsAndLoadConfig loads configuration, parses command line parameters, merges the values
// (command line values overwrite the config file ones), and validates the configuration
func ParseCommandParamsAndLoadConfig() (*Configuration, error) {
	config := newConfig()

	configFileValues := getParamValueFromArgs("config")
	if len(configFileValues) == 1 {
		if err := config.load(configFileValues[0]); err != nil {
			return nil, err
		}
	}

	failureTypes := getParamValueFromArgs("failure-types")

	f := pflag.NewFlagSet("helpdesk-responder-sim flags", pflag.ContinueOnError)

	f.IntVar(&config.Port, "port", config.Port, "Port")
	f.StringVar(&config.ResponsesFile, "responses-file", config.ResponsesFile, "Path to the keyword response file")
	f.StringVar(&config.DefaultsFile, "default-responses-file", config.DefaultsFile, "Path to the default response file")
	f.Int64Var(&config.Seed, "seed", config.Seed, "Random seed for operations (if not set, current Unix time in nanoseconds is used)")
	f.IntVar(&config.MaxNumWorkers, "max-num-workers", config.MaxNumWorkers, "Number of workers processing respond requests at the same time")

	f.IntVar(&config.ReplyLatency, "reply-latency", config.ReplyLatency, "Time before a reply is returned (in milliseconds)")
	f.IntVar(&config.ReplyLatencyStdDev, "reply-latency-std-dev", config.ReplyLatencyStdDev, "Standard deviation for time before a reply is returned (in milliseconds)")

	f.IntVar(&config.FailureInjectionRate, "failure-injection-rate", config.FailureInjectionRate, "Probability (0-100) of injecting failures")
	var dummyFailureTypes multiString
	failureTypesDescription := fmt.Sprintf("List of specific failure types to inject (%s, %s, %s)",
		FailureTypeRateLimit, FailureTypeServerError, FailureTypeInvalidRequest)
	f.Var(&dummyFailureTypes, "failure-types", failureTypesDescription)
	f.Lookup("failure-types").NoOptDefVal = dummy

	f.BoolVar(&config.EnableEvents, "enable-events", config.EnableEvents, "Defines if served replies are published as events")
	f.StringVar(&config.ZMQEndpoint, "zmq-endpoint", config.ZMQEndpoint, "ZMQ address to publish reply events")
	f.UintVar(&config.ZMQMaxConnectAttempts, "zmq-max-connect-attempts", config.ZMQMaxConnectAttempts, "Maximum number of times to try ZMQ connect")
	f.IntVar(&config.EventBatchSize, "event-batch-size", config.EventBatchSize, "Maximum number of reply events to be sent together")

	f.StringVar(&config.ArchivePath, "archive-path", config.ArchivePath, "Path to the SQLite file in which served replies are recorded, empty disables the archive")
	f.BoolVar(&config.ArchiveInMemory, "archive-in-memory", config.ArchiveInMemory, "Keep the reply archive in memory instead of on disk")

	f.StringVar(&config.SSLCertFile, "ssl-certfile", config.SSLCertFile, "Path to SSL certificate file for HTTPS (optional)")
	f.StringVar(&config.SSLKeyFile, "ssl-keyfile", config.SSLKeyFile, "Path to SSL private key file for HTTPS (optional)")
	f.BoolVar(&config.SelfSignedCerts, "self-signed-certs", config.SelfSignedCerts, "Enable automatic generation of self-signed certificates for HTTPS")

	// This value was manually parsed above in getParamValueFromArgs, we leave this in order to get the flag in --help
	var dummyString string
	f.StringVar(&dummyString, "config", "", "The path to a yaml configuration file. The command line values overwrite the configuration file values")

	flagSet := flag.NewFlagSet("simFlagSet", flag.ExitOnError)
	klog.InitFlags(flagSet)
	f.AddGoFlagSet(flagSet)

	if err := f.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			// --help - exit without printing an error message
			os.Exit(0)
		}
		return nil, err
	}

	// Need to read in a variable to avoid merging the values with the config file ones
	if failureTypes != nil {
		config.FailureTypes = failureTypes
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func getParamValueFromArgs(param string) []string {
	var values []string
	var readValues bool
	for _, arg := range os.Args[1:] {
		if readValues {
			if strings.HasPrefix(arg, "--") {
				break
			}
			if arg != "" {
				values = append(values, arg)
			}
		} else {
			if arg == "--"+param {
				readValues = true
				values = make([]string, 0)
			} else if strings.HasPrefix(arg, "--"+param+"=") {
				// Handle --param=value
				values = append(values, strings.TrimPrefix(arg, "--"+param+"="))
				break
			}
		}
	}
	return values
}
