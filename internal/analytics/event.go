package analytics

import "time"

// TopicAdmission is the topic admission decisions are published on.
const TopicAdmission = "quota.decided"

// AdmissionEvent records a single admission decision made by the quota gate.
type AdmissionEvent struct {
	RequestID string    `json:"requestId"`
	Key       string    `json:"key"`
	Allowed   bool      `json:"allowed"`
	Count     int64     `json:"count"`
	Limit     int64     `json:"limit"`
	DecidedAt time.Time `json:"decidedAt"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
}
