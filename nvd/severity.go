package nvd

import (
	"github.com/chainguardia/chainguardia-backend/model"
	"github.com/chainguardia/chainguardia-backend/util"
)

// pickMetric selects the scoring entry a record resolves from: the first
// entry of the newest schema version present, falling back to the next
// older version. Returns nil when no scoring data exists.
func pickMetric(metrics Metrics) *CVSSMetric {
	if len(metrics.CVSSMetricV40) > 0 {
		return &metrics.CVSSMetricV40[0]
	}
	if len(metrics.CVSSMetricV31) > 0 {
		return &metrics.CVSSMetricV31[0]
	}
	if len(metrics.CVSSMetricV30) > 0 {
		return &metrics.CVSSMetricV30[0]
	}
	return nil
}

// ResolveSeverity extracts the canonical severity level of a CVE record.
// Records without scoring data default to LOW, as do unparsable severity
// strings; a record is never dropped on that basis alone. A metric that
// carries a vector string but no severity label is scored from the vector.
func ResolveSeverity(cve CVE) string {
	metric := pickMetric(cve.Metrics)
	if metric == nil {
		return util.SeverityLow
	}
	if metric.CVSSData.BaseSeverity != "" {
		return util.NormalizeSeverity(metric.CVSSData.BaseSeverity)
	}
	if score := util.CalculateCVSSScore(metric.CVSSData.VectorString); score > 0 {
		return util.NormalizeSeverity(util.GetSeverityRating(score))
	}
	return util.SeverityLow
}

// ResolveCVSS returns the minimal scoring triple of the resolved metric,
// or nil when the record has no scoring data.
func ResolveCVSS(cve CVE) *model.CVSSData {
	metric := pickMetric(cve.Metrics)
	if metric == nil {
		return nil
	}
	return &model.CVSSData{
		BaseScore:    metric.CVSSData.BaseScore,
		BaseSeverity: metric.CVSSData.BaseSeverity,
		VectorString: metric.CVSSData.VectorString,
	}
}
