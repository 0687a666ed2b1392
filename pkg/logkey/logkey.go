package logkey

const (
	TraceID   = "Trace ID"
	ERROR     = "Error"
	UserID    = "UserID"
	ProductID = "ProductID"
	OrderID   = "OrderID"
)
