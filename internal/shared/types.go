package shared

const (
	TypeImportPaymentMethods = "paymentmean:import_methods"
)

// QueueName groups asynq tasks by priority
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// ImportPaymentMethodsPayload represents data for a payment-method import run
type ImportPaymentMethodsPayload struct {
	// TriggeredBy is "scheduler" or the admin user id
	TriggeredBy string `json:"triggeredBy"`
}
