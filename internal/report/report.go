// Package report writes run output for downstream tooling: the normalized
// record table as CSV (one row per input record) and the anomaly list as
// JSON, optionally gzip-compressed.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"

	"invnorm/internal/domain"
)

// RecordColumns is the output table schema, in column order.
var RecordColumns = []string{
	"source_row_id",
	"ip", "ip_valid", "ip_version", "subnet_cidr",
	"hostname", "hostname_valid", "fqdn", "fqdn_consistent", "reverse_ptr",
	"mac", "mac_valid",
	"owner", "owner_email", "owner_team",
	"device_type", "device_type_confidence",
	"site", "site_normalized",
	"normalization_steps",
}

// WriteRecordsCSV writes the normalized record table with a header row.
func WriteRecordsCSV(w io.Writer, records []domain.NormalizedRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(RecordColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.SourceRowID,
			rec.IP,
			strconv.FormatBool(rec.IPValid),
			string(rec.IPVersion),
			rec.SubnetCIDR,
			rec.Hostname,
			strconv.FormatBool(rec.HostnameValid),
			rec.FQDN,
			strconv.FormatBool(rec.FQDNConsistent),
			rec.ReversePTR,
			rec.MAC,
			strconv.FormatBool(rec.MACValid),
			rec.Owner,
			rec.OwnerEmail,
			rec.OwnerTeam,
			rec.DeviceType,
			string(rec.DeviceTypeConfidence),
			rec.Site,
			rec.SiteNormalized,
			rec.StepList(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %s: %w", rec.SourceRowID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteRecordsFile writes the record table to a file.
func WriteRecordsFile(path string, records []domain.NormalizedRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create records file: %w", err)
	}
	defer f.Close()

	if err := WriteRecordsCSV(f, records); err != nil {
		return err
	}
	return f.Close()
}

// WriteAnomaliesJSON writes the anomaly list as indented JSON.
func WriteAnomaliesJSON(w io.Writer, anomalies []domain.Anomaly) error {
	if anomalies == nil {
		anomalies = []domain.Anomaly{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(anomalies); err != nil {
		return fmt.Errorf("encode anomalies: %w", err)
	}
	return nil
}

// WriteAnomaliesFile writes the anomaly report to a file. With compress set,
// the output is gzipped and the path gains a .gz suffix unless it already
// carries one. Returns the path actually written.
func WriteAnomaliesFile(path string, anomalies []domain.Anomaly, compress bool) (string, error) {
	if compress && !strings.HasSuffix(path, ".gz") {
		path += ".gz"
	}

	f, err := os.Create(path)
	if err != nil {
		return path, fmt.Errorf("create anomalies file: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if compress {
		gz = gzip.NewWriter(f)
		w = gz
	}

	if err := WriteAnomaliesJSON(w, anomalies); err != nil {
		return path, err
	}

	if gz != nil {
		if err := gz.Close(); err != nil {
			return path, fmt.Errorf("close gzip stream: %w", err)
		}
	}
	return path, f.Close()
}

// ReadRecordsCSV parses a raw inventory CSV with a header row into raw
// records. Unknown columns are ignored; missing columns yield empty fields.
func ReadRecordsCSV(r io.Reader) ([]domain.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var records []domain.RawRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(records)+2, err)
		}

		records = append(records, domain.RawRecord{
			SourceRowID: field(row, "source_row_id"),
			IP:          field(row, "ip"),
			MAC:         field(row, "mac"),
			Hostname:    field(row, "hostname"),
			FQDN:        field(row, "fqdn"),
			Owner:       field(row, "owner"),
			DeviceType:  field(row, "device_type"),
			Notes:       field(row, "notes"),
			Site:        field(row, "site"),
			Subnet:      field(row, "subnet"),
		})
	}

	return records, nil
}

// ReadRecordsFile reads a raw inventory CSV from disk.
func ReadRecordsFile(path string) ([]domain.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	return ReadRecordsCSV(f)
}
