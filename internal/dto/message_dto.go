package dto

// StatusChangedMessage rides the in-process bus from the admin service to
// the notifier, which fans it out to email and the websocket feed.
type StatusChangedMessage struct {
	ApplicationId string `json:"application_id"`
	UserId        string `json:"user_id"`
	UserName      string `json:"user_name"`
	UserEmail     string `json:"user_email"`
	FromStatus    string `json:"from_status"`
	ToStatus      string `json:"to_status"`
}
