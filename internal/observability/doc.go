// Package observability records task changes in a JSON Lines event log,
// derives activity metrics from that log, and raises due-date alerts over
// the current task collection.
package observability
