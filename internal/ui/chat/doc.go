// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the assistant chat widget for the dashboard.

The widget is a self-contained Bubble Tea sub-model: an open/closed flag
owned by the instance, an in-memory transcript, a text input, and a
viewport that always follows the newest message.

# Send contract

Each send appends the user message synchronously, then issues the request
as a command. When the request settles, exactly one bot message is
appended:

  - a successful reply appends the backend's response text
  - an error status from the backend appends FallbackReply verbatim
  - a transport failure appends a message carrying the failure description

Whitespace-only input is a no-op. The input is never locked: overlapping
sends run independently and their replies land in completion order.

# Tips

Opening the widget fetches the quick-tip list and appends one tip chosen
uniformly at random as a bot message. Fetch failures and empty lists are
logged, never shown. The randomness source is injectable for tests.
*/
package chat
