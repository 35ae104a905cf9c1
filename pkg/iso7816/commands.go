package iso7816

// SelectByAID creates a SELECT command targeting an application by its
// DF name (P1=04), first occurrence, FCI requested.
//
// T=0 compatibility: when data is sent, Le stays absent (Case 3); the
// card answers 61XX and the Client fetches the FCI with GET RESPONSE.
func SelectByAID(cla byte, aid []byte) *CommandAPDU {
	return &CommandAPDU{
		Cla:  cla,
		Ins:  INS_SELECT,
		P1:   0x04, // select by DF name
		P2:   0x00, // first/only occurrence, return FCI
		Data: aid,
	}
}

// ReadRecord creates a READ RECORD command for one record, referenced by
// number, of the file named by the SFI.
func ReadRecord(cla byte, sfi, recordNumber byte) *CommandAPDU {
	return &CommandAPDU{
		Cla: cla,
		Ins: INS_READ_RECORD,
		P1:  recordNumber,
		// P2: SFI in bits 8-4, '100' = P1 is a record number.
		P2: (sfi << 3) | 0x04,
		Ne: MaxShortLe,
	}
}
