package board

import "strconv"

// Key scheme: thread records live under "thread_<id>", replies under
// "reply_<parent>_<id>". Reply scans must use ReplyPrefix, which keeps the
// trailing underscore so the prefix for parent 12 cannot match replies of
// parents 120..129.

const threadPrefix = "thread_"

// ThreadKey returns the store key for a thread record.
func ThreadKey(id int) []byte {
	return []byte(threadPrefix + strconv.Itoa(id))
}

// ThreadScanPrefix returns the prefix matching exactly the thread records.
func ThreadScanPrefix() []byte {
	return []byte(threadPrefix)
}

// ReplyKey returns the store key for a reply record.
func ReplyKey(parentID, replyID int) []byte {
	return []byte("reply_" + strconv.Itoa(parentID) + "_" + strconv.Itoa(replyID))
}

// ReplyPrefix returns the prefix matching exactly the replies of parentID.
func ReplyPrefix(parentID int) []byte {
	return []byte("reply_" + strconv.Itoa(parentID) + "_")
}
