// Package services implements the driving ports: the batch ingest
// pipeline (parse, normalise, index) and the query side (compile,
// execute). Services depend only on driven ports, never on adapters.
package services
