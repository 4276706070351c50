package stripewebhook

import (
	"fmt"
	"strconv"

	"vpn-backend/database"
	"vpn-backend/internal/domain/subscriptions"

	"github.com/stripe/stripe-go/v75"
)

// handleCheckoutSessionCompleted applies a paid checkout as a renewal.
// The metadata was stamped when the session was created; a session
// without it is not ours and gets acknowledged without effect.
func handleCheckoutSessionCompleted(session *stripe.CheckoutSession) error {
	planCode := session.Metadata["plan_code"]
	userIDRaw := session.Metadata["user_id"]
	if planCode == "" || userIDRaw == "" {
		return nil
	}

	userID, err := strconv.ParseUint(userIDRaw, 10, 32)
	if err != nil {
		return fmt.Errorf("bad user_id metadata: %q", userIDRaw)
	}

	days, _ := strconv.Atoi(session.Metadata["days"])

	_, err = subscriptions.Renew(database.DB, uint(userID), planCode, days)
	return err
}
