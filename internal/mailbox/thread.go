package mailbox

import "github.com/bscott/mailsort/internal/engine"

// Thread is a conversation reconstructed from search results. Messages
// are linked to their parents through the In-Reply-To header.
type Thread struct {
	client  *Client
	msgs    []engine.Message
	seqNums []uint32
}

func (t *Thread) Messages() []engine.Message { return t.msgs }

// MarkRead sets \Seen on every message in the thread.
func (t *Thread) MarkRead() error {
	return t.client.markRead(t.seqNums)
}

// groupThreads folds fetched messages into threads. Messages arrive in
// sequence order, so a reply normally follows the message it answers;
// anything without a known parent starts its own thread.
func groupThreads(c *Client, msgs []fetchedMessage) []*Thread {
	var threads []*Thread
	byMessageID := make(map[string]*Thread)

	for _, m := range msgs {
		var thread *Thread
		if m.inReplyTo != "" {
			thread = byMessageID[m.inReplyTo]
		}
		if thread == nil {
			thread = &Thread{client: c}
			threads = append(threads, thread)
		}

		thread.msgs = append(thread.msgs, m.Message)
		thread.seqNums = append(thread.seqNums, m.seqNum)
		if m.messageID != "" {
			byMessageID[m.messageID] = thread
		}
	}

	return threads
}
