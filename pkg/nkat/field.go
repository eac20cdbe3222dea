// Package nkat defines the forwarding-policy language: predicates over
// packet header fields, field modifications, and parallel/sequential
// composition, plus the iterated policy-then-topology shape accepted by
// the bounded verifier.
package nkat

import "fmt"

// Field identifies one packet header attribute. The set is finite and
// fixed; every symbolic packet ranges over exactly this tuple.
type Field int

const (
	Switch Field = iota
	Port
	EthSrc
	EthDst
	EthType
	Vlan
	VlanPcp
	IPProto
	IP4Src
	IP4Dst
	TCPSrcPort
	TCPDstPort
)

// Fields lists every packet field in declaration order. Iteration order
// matters: packet-equality macros enumerate fields in this order so the
// emitted solver program is deterministic.
var Fields = [...]Field{
	Switch, Port, EthSrc, EthDst, EthType, Vlan,
	VlanPcp, IPProto, IP4Src, IP4Dst, TCPSrcPort, TCPDstPort,
}

var fieldNames = map[Field]string{
	Switch:     "switch",
	Port:       "port",
	EthSrc:     "ethsrc",
	EthDst:     "ethdst",
	EthType:    "ethtype",
	Vlan:       "vlan",
	VlanPcp:    "vlanpcp",
	IPProto:    "ipproto",
	IP4Src:     "ip4src",
	IP4Dst:     "ip4dst",
	TCPSrcPort: "tcpsrcport",
	TCPDstPort: "tcpdstport",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// ParseField maps a field name (as used in scenario files) to a Field.
func ParseField(name string) (Field, error) {
	for f, n := range fieldNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown packet field '%s'", name)
}

// Value is the integer content of a packet field.
type Value = int64
