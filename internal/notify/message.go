package notify

import "fmt"

// NewMatchAlert renders the alert sent when fresh companions appear for a
// user's active search.
func NewMatchAlert(userID, email, destination string, count int) Notification {
	plural := "traveller"
	if count != 1 {
		plural = "travellers"
	}
	return Notification{
		UserID:  userID,
		Email:   email,
		Subject: fmt.Sprintf("New travel companions for %s", destination),
		Body: fmt.Sprintf(
			"%d compatible %s also planning a trip to %s. Open the app to see your matches.",
			count, plural, destination,
		),
	}
}
