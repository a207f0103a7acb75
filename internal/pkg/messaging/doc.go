// Package messaging publishes and consumes broker messages behind one API.
// NATS, Kafka and an in-process Memory broker are available.
package messaging
