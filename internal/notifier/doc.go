// Package notifier delivers contest records to people.
//
// Four channels are supported:
//   - email: an HTML newsletter sent over SMTP (STARTTLS) or through the Resend API
//   - twitter: one tweet per contest, paced to stay under rate limits
//   - telegram: a digest message, split when it exceeds the Bot API length limit
//   - dry-run: prints what would be sent without contacting anything
//
// All notifiers implement Notifier and refuse an empty record set with ErrNoRecords.
package notifier
