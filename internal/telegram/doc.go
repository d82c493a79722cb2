// Package telegram sends contest digests to a Telegram chat.
//
// Messages are posted to the Bot API sendMessage endpoint as JSON with HTML parse mode.
// Authentication requires a bot token (from @BotFather) and chat ID.
package telegram
