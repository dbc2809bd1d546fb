package toggle

import "fmt"

// nicknames is the fixed device-side relay name table. Every switchboard
// firmware revision exposes exactly eight relays under these names;
// position n maps to index n-1.
var nicknames = [8]string{
	"relay1", "relay2", "relay3", "relay4",
	"relay5", "relay6", "relay7", "relay8",
}

// NicknameForPosition returns the device-side relay nickname for a 1-based
// switch position.
func NicknameForPosition(position int) (string, error) {
	if position < 1 || position > len(nicknames) {
		return "", fmt.Errorf("position %d out of range 1-%d", position, len(nicknames))
	}
	return nicknames[position-1], nil
}

// PositionForNickname returns the 1-based switch position for a relay
// nickname, or false if the nickname is not in the table.
func PositionForNickname(nickname string) (int, bool) {
	for i, n := range nicknames {
		if n == nickname {
			return i + 1, true
		}
	}
	return 0, false
}
