package model

// DeliveryError ошибка доставки, уже классифицированная транспортом.
// Status содержит терминальный статус розыгрыша, соответствующий причине
// отказа (error_channel_not_found, error_bot_not_member, error_no_rights,
// error_publish_failed).
type DeliveryError struct {
	Status string
	Err    error
}

func (e *DeliveryError) Error() string {
	return e.Err.Error()
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
