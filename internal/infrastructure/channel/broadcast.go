package channel

import "errors"

// broadcast writes a pre-encoded frame to each connection in turn and
// flushes it out. Nil entries and connections that were terminated
// after the recipient snapshot was taken are skipped without error. A
// genuine write failure is treated as an implicit disconnect: the dead
// handle goes through the same removal path a transport close would
// take, so it cannot accumulate in the registry.
func (ch *Channel) broadcast(conns []*Connection, frame []byte) {
	for _, conn := range conns {
		if conn == nil {
			continue
		}
		if err := conn.Write(frame); err != nil {
			if errors.Is(err, errClosed) {
				continue
			}
			ch.logger.Warnf("write to connection %s failed, removing: %v", conn.ID(), err)
			ch.removeIfCurrent(conn.ID(), conn)
		}
	}
}
