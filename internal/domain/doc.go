// Package domain defines the core data model for inventory normalization:
// raw input records, normalized output records, transformation steps, and
// anomalies. Types here carry no behavior beyond construction and small
// accessors; all normalization logic lives in internal/normalize.
package domain
