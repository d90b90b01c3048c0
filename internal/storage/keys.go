package storage

import "fmt"

// Chat-scoped key layout. One chat owns exactly three entries: the
// session identifier (plain string), the serialized turn history, and
// the captured student identity.
func SessionKey(chatID int64) string { return fmt.Sprintf("chat:%d:session_id", chatID) }
func HistoryKey(chatID int64) string { return fmt.Sprintf("chat:%d:history", chatID) }
func StudentKey(chatID int64) string { return fmt.Sprintf("chat:%d:student", chatID) }
