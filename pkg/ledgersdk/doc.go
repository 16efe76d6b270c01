/*
Package ledgersdk provides a client for the referral ledger HTTP API and the
wire types its handlers return.

	client := ledgersdk.NewClient("http://localhost:8080")

	alice, err := client.Register(ctx, ledgersdk.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	})

	bob, err := client.Register(ctx, ledgersdk.RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "battery staple",
		Referral: "alice",
	})

	w, err := client.RequestWithdrawal(ctx, alice.ID, decimal.RequireFromString("0.3"))
	if errors.Is(err, ledgersdk.ErrNotEligible) {
		// balance below the withdrawal threshold
	}

Withdrawals stay Pending until the administrator resolves them over the
admin channel; poll GetAccount to observe the outcome.

# Errors

Non-2xx responses are returned as *APIError. The predefined errors match by
code, so errors.Is(err, ErrConflict) works for any conflict response.
*/
package ledgersdk
