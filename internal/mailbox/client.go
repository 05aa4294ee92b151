// Package mailbox implements the engine's mailbox collaborator over IMAP.
package mailbox

import (
	"crypto/tls"
	"fmt"

	"github.com/bscott/mailsort/internal/config"
	"github.com/bscott/mailsort/internal/engine"
	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

type Client struct {
	client  *imapclient.Client
	config  *config.Config
	mailbox string
}

func NewClient(cfg *config.Config) (*Client, error) {
	mbox := cfg.Defaults.Mailbox
	if mbox == "" {
		mbox = config.DefaultMailbox
	}
	return &Client{
		config:  cfg,
		mailbox: mbox,
	}, nil
}

func (c *Client) Connect() error {
	password, err := c.config.GetIMAPPassword()
	if err != nil {
		return fmt.Errorf("failed to get password: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", c.config.IMAP.Host, c.config.IMAP.Port)

	options := &imapclient.Options{
		TLSConfig: &tls.Config{
			InsecureSkipVerify: c.config.IMAP.Insecure,
			ServerName:         c.config.IMAP.Host,
		},
	}

	var client *imapclient.Client
	if c.config.IMAP.StartTLS {
		client, err = imapclient.DialStartTLS(addr, options)
	} else {
		client, err = imapclient.DialTLS(addr, options)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to IMAP server: %w", err)
	}

	if err := client.Login(c.config.IMAP.Email, password).Wait(); err != nil {
		client.Close()
		return fmt.Errorf("IMAP login failed: %w", err)
	}

	c.client = client
	return nil
}

func (c *Client) Close() error {
	if c.client != nil {
		if err := c.client.Logout().Wait(); err != nil {
			// Ignore logout errors, just close
		}
		return c.client.Close()
	}
	return nil
}

func (c *Client) ListMailboxes() ([]string, error) {
	if c.client == nil {
		return nil, fmt.Errorf("not connected")
	}

	listCmd := c.client.List("", "*", nil)
	mailboxes, err := listCmd.Collect()
	if err != nil {
		return nil, fmt.Errorf("failed to list mailboxes: %w", err)
	}

	names := make([]string, 0, len(mailboxes))
	for _, mb := range mailboxes {
		names = append(names, mb.Mailbox)
	}
	return names, nil
}

// Search implements engine.Mailbox. The query uses the engine's search
// grammar; offset and limit apply at thread granularity.
func (c *Client) Search(query string, offset, limit int) ([]engine.Thread, error) {
	if c.client == nil {
		return nil, fmt.Errorf("not connected")
	}

	q, err := parseQuery(query)
	if err != nil {
		return nil, err
	}

	if _, err := c.client.Select(c.mailbox, nil).Wait(); err != nil {
		return nil, fmt.Errorf("failed to select mailbox %s: %w", c.mailbox, err)
	}

	searchData, err := c.client.Search(q.criteria(), nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	seqNums := searchData.AllSeqNums()
	if len(seqNums) == 0 {
		return nil, nil
	}

	msgs, err := c.fetchMessages(seqNums)
	if err != nil {
		return nil, err
	}

	if q.hasAttachment {
		// IMAP search has no portable attachment criterion, so the
		// has:attachment clause is applied after the fetch.
		filtered := msgs[:0]
		for _, m := range msgs {
			if len(m.Attachments) > 0 {
				filtered = append(filtered, m)
			}
		}
		msgs = filtered
	}

	threads := groupThreads(c, msgs)
	if offset >= len(threads) {
		return nil, nil
	}
	threads = threads[offset:]
	if limit > 0 && len(threads) > limit {
		threads = threads[:limit]
	}

	out := make([]engine.Thread, len(threads))
	for i, t := range threads {
		out[i] = t
	}
	return out, nil
}

// fetchedMessage pairs the engine's message view with the IMAP bookkeeping
// needed for threading and flag updates.
type fetchedMessage struct {
	engine.Message
	seqNum    uint32
	messageID string
	inReplyTo string
}

func (c *Client) fetchMessages(seqNums []uint32) ([]fetchedMessage, error) {
	var seqSet imap.SeqSet
	for _, n := range seqNums {
		seqSet.AddNum(n)
	}

	fetchOptions := &imap.FetchOptions{
		UID:          true,
		Flags:        true,
		Envelope:     true,
		InternalDate: true,
		BodySection:  []*imap.FetchItemBodySection{{}},
	}

	fetchCmd := c.client.Fetch(seqSet, fetchOptions)
	defer fetchCmd.Close()

	var messages []fetchedMessage
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}

		var envelope *imap.Envelope
		var flags []imap.Flag
		var rawBody []byte

		for {
			item := msg.Next()
			if item == nil {
				break
			}

			switch data := item.(type) {
			case imapclient.FetchItemDataFlags:
				flags = data.Flags
			case imapclient.FetchItemDataEnvelope:
				envelope = data.Envelope
			case imapclient.FetchItemDataBodySection:
				body, err := readAll(data.Literal)
				if err == nil {
					rawBody = body
				}
			}
		}

		if envelope == nil {
			continue
		}

		seen := false
		for _, f := range flags {
			if f == imap.FlagSeen {
				seen = true
			}
		}

		from := ""
		if len(envelope.From) > 0 {
			from = envelope.From[0].Addr()
		}

		inReplyTo := ""
		if len(envelope.InReplyTo) > 0 {
			inReplyTo = envelope.InReplyTo[0]
		}

		messages = append(messages, fetchedMessage{
			Message: engine.Message{
				From:        from,
				Subject:     envelope.Subject,
				Date:        envelope.Date,
				Unread:      !seen,
				Attachments: parseAttachments(rawBody),
			},
			seqNum:    msg.SeqNum,
			messageID: envelope.MessageID,
			inReplyTo: inReplyTo,
		})
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}

	return messages, nil
}

// markRead adds \Seen to every message in the sequence set.
func (c *Client) markRead(seqNums []uint32) error {
	if len(seqNums) == 0 {
		return nil
	}

	var seqSet imap.SeqSet
	for _, n := range seqNums {
		seqSet.AddNum(n)
	}

	storeCmd := c.client.Store(seqSet, &imap.StoreFlags{
		Op:    imap.StoreFlagsAdd,
		Flags: []imap.Flag{imap.FlagSeen},
	}, nil)
	if err := storeCmd.Close(); err != nil {
		return fmt.Errorf("failed to mark as read: %w", err)
	}

	return nil
}

func readAll(r imap.LiteralReader) ([]byte, error) {
	data := make([]byte, r.Size())
	_, err := r.Read(data)
	return data, err
}
