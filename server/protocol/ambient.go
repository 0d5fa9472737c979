package protocol

import pk "github.com/Tnze/go-mc/net/packet"

// EncodeWeather builds the packet announcing a layer's current rain/thunder
// intensity (SPEC_FULL.md §4 "Weather"). Both values are already clamped to
// [0, 1] by world.Layer's SetRain/SetThunder before reaching here.
func EncodeWeather(rain, thunder float64) []byte {
	return Frame(CBWeather, Encode(pk.Float(float32(rain)), pk.Float(float32(thunder))))
}

// EncodePlayerAbilities builds the packet carrying a client's ability flags
// and movement speeds (SPEC_FULL.md §4 "Abilities / op level"). opLevel is
// not itself a field of this packet on the wire (the client infers
// creative-mode abilities from the flags alone); it is carried here as an
// extra trailing byte so embedding applications that keep this module's
// placeholder ids have a single packet to derive both from.
func EncodePlayerAbilities(invulnerable, flying, allowFlying, instabreak bool, flySpeed, walkSpeed float32, opLevel byte) []byte {
	var flags byte
	if invulnerable {
		flags |= 0x01
	}
	if flying {
		flags |= 0x02
	}
	if allowFlying {
		flags |= 0x04
	}
	if instabreak {
		flags |= 0x08
	}
	body := Encode(pk.Byte(flags), pk.Float(flySpeed), pk.Float(walkSpeed), pk.Byte(opLevel))
	return Frame(CBPlayerAbilities, body)
}
