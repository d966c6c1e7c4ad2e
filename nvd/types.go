// Package nvd implements the client for the NVD CVE API 2.0 and the
// severity filtering applied to its records.
package nvd

import (
	"encoding/json"
	"fmt"
)

// Response is the typed shape of a CVE API 2.0 page
type Response struct {
	ResultsPerPage  int       `json:"resultsPerPage"`
	StartIndex      int       `json:"startIndex"`
	TotalResults    int       `json:"totalResults"`
	Format          string    `json:"format,omitempty"`
	Version         string    `json:"version,omitempty"`
	Timestamp       string    `json:"timestamp,omitempty"`
	Vulnerabilities []CVEItem `json:"vulnerabilities"`
}

// CVEItem wraps a single CVE record in the response array
type CVEItem struct {
	CVE CVE `json:"cve"`
}

// CVE is the upstream CVE record, decoded to the fields this service consumes
type CVE struct {
	ID           string      `json:"id"`
	Published    string      `json:"published"`
	LastModified string      `json:"lastModified"`
	VulnStatus   string      `json:"vulnStatus"`
	Descriptions []LangValue `json:"descriptions"`
	Metrics      Metrics     `json:"metrics"`
	References   []Reference `json:"references"`
}

// LangValue is a locale-tagged description entry
type LangValue struct {
	Lang  string `json:"lang"`
	Value string `json:"value"`
}

// Reference is a single advisory link on a CVE
type Reference struct {
	URL    string   `json:"url"`
	Source string   `json:"source,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}

// Metrics holds the scoring entries per CVSS schema version
type Metrics struct {
	CVSSMetricV40 []CVSSMetric `json:"cvssMetricV40,omitempty"`
	CVSSMetricV31 []CVSSMetric `json:"cvssMetricV31,omitempty"`
	CVSSMetricV30 []CVSSMetric `json:"cvssMetricV30,omitempty"`
}

// CVSSMetric is one scoring entry from one source
type CVSSMetric struct {
	Source   string   `json:"source"`
	Type     string   `json:"type"`
	CVSSData CVSSData `json:"cvssData"`
}

// CVSSData carries the base score triple of a metric entry
type CVSSData struct {
	Version      string  `json:"version"`
	VectorString string  `json:"vectorString"`
	BaseScore    float64 `json:"baseScore"`
	BaseSeverity string  `json:"baseSeverity"`
}

// DecodeError reports an unparsable upstream body
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unable to decode NVD response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// decodeResponse performs a schema-validating decode of an upstream body.
// It returns either a fully-typed response or a DecodeError; a partially
// filled structure is never propagated downstream.
func decodeResponse(body []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &DecodeError{Err: err}
	}
	for i, item := range resp.Vulnerabilities {
		if item.CVE.ID == "" {
			return nil, &DecodeError{Err: fmt.Errorf("vulnerability %d is missing a cve id", i)}
		}
	}
	return &resp, nil
}
