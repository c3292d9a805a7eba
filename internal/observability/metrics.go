package observability

const (
	MUsecaseRequests     MetricKey = "usecase_requests_total"
	MUsecaseDuration     MetricKey = "usecase_duration_seconds"
	MHTTPRequests        MetricKey = "http_requests_total"
	MHTTPRequestDuration MetricKey = "http_request_duration_seconds"
	MJobsProcessed       MetricKey = "jobs_processed_total"
	MJobsDeadLettered    MetricKey = "jobs_dead_lettered_total"
	MWebhookRequests     MetricKey = "webhook_requests_total"
	MEventsPublished     MetricKey = "events_published_total"
)
