// Package influxdb writes controller metrics to InfluxDB v2.
//
// Measurements:
//
//	output_state       tag line, field active (0/1)
//	temperature        field value_c
//	controller_events  tag kind, field count (always 1)
//
// Writes go through the batched non-blocking write API. Failed batches are
// reported to the logger set with SetLogger.
package influxdb
