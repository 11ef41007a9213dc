/*
Package authsdk is a client for the bndy auth hub.

# Overview

The hub owns identity. Users sign in on the hub's own pages and are sent back
to the caller with a signed bearer token in the query string. This package
never validates that signature; it only helps the caller get users to and
from the hub, and keeps an existing token fresh.

	client := authsdk.NewSDKClient("https://bndy.co.uk")

	// Send the user to sign in; they return to the callback with ?token=...
	fmt.Println(client.LoginURL("http://127.0.0.1:8976/auth/callback"))

	// Swap a token for a newer one
	fresh, err := client.Refresh(ctx, token)

	// End the hub session
	fmt.Println(client.LogoutURL("http://127.0.0.1:8976"))

# Credentials

Refresh is a credentialed call: the hub may rely on its own session cookie as
well as the presented token. NewSDKClient installs a cookie jar so cookies the
hub sets survive across calls made with the same client.

# Error Handling

Any non-2xx response is returned as a *HubError carrying the status code and
whatever reason the hub gave:

	fresh, err := client.Refresh(ctx, token)
	var herr *authsdk.HubError
	if errors.As(err, &herr) && herr.Unauthorized() {
		// token is no longer accepted; sign in again
	}

A 2xx response without a token is ErrNoToken.
*/
package authsdk
