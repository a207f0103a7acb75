package messaging

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DriverNATS   = "nats"
	DriverKafka  = "kafka"
	DriverMemory = "memory"
)

var ErrUnknownDriver = errors.New("messaging: unknown driver")

type FactoryOptions struct {
	Kafka KafkaConfig
	NATS  NATSConfig
}

var drivers = map[string]func(FactoryOptions) (Messaging, error){
	DriverKafka:  func(o FactoryOptions) (Messaging, error) { return NewKafka(o.Kafka) },
	DriverNATS:   func(o FactoryOptions) (Messaging, error) { return NewNATS(o.NATS) },
	DriverMemory: func(FactoryOptions) (Messaging, error) { return NewMemory(), nil },
}

// NewFromDriver builds the client named by driver, case-insensitively.
func NewFromDriver(driver string, opts FactoryOptions) (Messaging, error) {
	build, ok := drivers[strings.ToLower(strings.TrimSpace(driver))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	return build(opts)
}
