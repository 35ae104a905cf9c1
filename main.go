package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/ebfe/scard"
	"github.com/gregLibert/emv-select/pkg/emv"
	"github.com/gregLibert/emv-select/pkg/iso7816"
	"github.com/gregLibert/emv-select/pkg/tlv"
)

// terminalApplications is the terminal's supported-AID table. Partial
// entries accept any product under the scheme's RID.
var terminalApplications = []emv.SupportedApplication{
	{AID: tlv.Hex("A000000003"), Mode: emv.MatchPartial},   // Visa
	{AID: tlv.Hex("A000000004"), Mode: emv.MatchPartial},   // Mastercard
	{AID: tlv.Hex("A000000025"), Mode: emv.MatchPartial},   // American Express
	{AID: tlv.Hex("A0000001523010"), Mode: emv.MatchExact}, // Discover
	{AID: tlv.Hex("A0000000651010"), Mode: emv.MatchExact}, // JCB
}

// directAIDs is the fallback list for cards without a payment system
// directory: each AID is selected explicitly.
var directAIDs = [][]byte{
	tlv.Hex("A0000000031010"),
	tlv.Hex("A0000000041010"),
	tlv.Hex("A00000002501"),
	tlv.Hex("A0000001523010"),
	tlv.Hex("A0000000651010"),
}

func main() {
	ctx, card := connectToCard()

	defer func() {
		if err := ctx.Release(); err != nil {
			log.Printf("Warning: Failed to release context: %v", err)
		}
	}()

	defer func() {
		if err := card.Disconnect(scard.LeaveCard); err != nil {
			log.Printf("Warning: Failed to disconnect card: %v", err)
		}
	}()

	client := iso7816.NewClient(card)

	// Step 1+2: build the candidate list, preferring the PSE directory.
	candidates, err := discoverFromDirectory(client)
	if err != nil {
		log.Printf("Directory discovery failed: %v", err)
	}
	if candidates.IsEmpty() {
		fmt.Println("\n>> No PSE directory, falling back to direct AID selection.")
		candidates = discoverByDirectSelection(client)
	}
	defer candidates.Clear()

	// Confirmation is decided on the initial list, before filtering:
	// shrinking the list later does not waive it.
	confirmationNeeded := candidates.SelectionRequired()

	// Step 3: filter and rank.
	if dropped := candidates.FilterSupported(terminalApplications); dropped > 0 {
		fmt.Printf("\n>> Dropped %d candidate(s) the terminal does not support.\n", dropped)
	}

	if err := candidates.SortByPriority(); err != nil {
		log.Fatalf("Priority sort failed: %v", err)
	}

	printCandidates(candidates, confirmationNeeded)
}

// connectToCard handles the PC/SC context establishment and reader connection.
func connectToCard() (*scard.Context, *scard.Card) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		log.Fatalf("Error establishing context: %s", err)
	}

	readers, err := ctx.ListReaders()
	if err != nil || len(readers) == 0 {
		if relErr := ctx.Release(); relErr != nil {
			log.Printf("Warning: Failed to release context during error handling: %v", relErr)
		}
		log.Fatal("No smart card reader found.")
	}

	fmt.Printf(">> Using reader: %s\n", readers[0])

	// Force T=0 or T=1 to avoid "Parameter Incorrect" errors (Error 57)
	card, err := ctx.Connect(readers[0], scard.ShareShared, scard.ProtocolT0|scard.ProtocolT1)
	if err != nil {
		if relErr := ctx.Release(); relErr != nil {
			log.Printf("Warning: Failed to release context during error handling: %v", relErr)
		}
		log.Fatalf("Error connecting to card: %s", err)
	}

	return ctx, card
}

// discoverFromDirectory selects the PSE (1PAY.SYS.DDF01) and walks its
// directory records, collecting every candidate application.
func discoverFromDirectory(client *iso7816.Client) (*emv.CandidateList, error) {
	fmt.Println("\n=============================================")
	fmt.Println(" Step 1: SELECT PSE (1PAY.SYS.DDF01)")
	fmt.Println("=============================================")

	list := &emv.CandidateList{}

	resp, err := client.Send(iso7816.SelectByAID(0x00, []byte("1PAY.SYS.DDF01")))
	if err != nil {
		return list, fmt.Errorf("transmission failed: %w", err)
	}
	if !resp.Status.IsSuccess() {
		return list, fmt.Errorf("PSE selection refused: %s", resp.Status.Verbose())
	}

	// The directory's FCI carries the SFI of the record file and,
	// optionally, the Issuer Code Table Index used by entry names.
	directory, err := tlv.ParseTemplate(resp.Data, emv.TagFCITemplate)
	if err != nil {
		return list, fmt.Errorf("failed to parse PSE FCI: %w", err)
	}

	sfiVal, ok := directory.Find(emv.TagSFI)
	if !ok || len(sfiVal) == 0 {
		return list, errors.New("PSE FCI carries no SFI")
	}
	sfi := sfiVal[0]

	fmt.Println("\n=============================================")
	fmt.Printf(" Step 2: EXPLORING DIRECTORY (SFI %d)\n", sfi)
	fmt.Println("=============================================")

	// Loop strictly from 1 to 30 (max records in a file).
	for recNum := byte(1); recNum <= 30; recNum++ {
		resp, err := client.Send(iso7816.ReadRecord(0x00, sfi, recNum))
		if err != nil {
			log.Printf("(!) Communication broken: %v", err)
			break
		}
		if resp.Status == iso7816.SW_ERR_RECORD_NOT_FOUND {
			fmt.Printf(">> Record #%d: end of directory reached.\n", recNum)
			break
		}
		if !resp.Status.IsSuccess() {
			fmt.Printf("(!) Record #%d refused: %s\n", recNum, resp.Status.Verbose())
			continue
		}

		found, err := emv.ParseDirectoryRecord(resp.Data, directory)
		if err != nil {
			fmt.Printf("(!) Record #%d not a directory record: %v\n", recNum, err)
			continue
		}
		for _, c := range found {
			fmt.Printf("   [+] Candidate: %X (%s)\n", c.AID(), c.DisplayName())
			if err := list.Push(c); err != nil {
				log.Printf("(!) Failed to collect candidate: %v", err)
			}
		}
	}

	return list, nil
}

// discoverByDirectSelection tries each configured AID with an explicit
// SELECT and builds candidates from the returned FCIs.
func discoverByDirectSelection(client *iso7816.Client) *emv.CandidateList {
	list := &emv.CandidateList{}

	for _, aid := range directAIDs {
		resp, err := client.Send(iso7816.SelectByAID(0x00, aid))
		if err != nil {
			log.Printf("Transmission failed for AID %X: %v", aid, err)
			continue
		}
		if !resp.Status.IsSuccess() {
			continue
		}

		c, err := emv.NewCandidateFromFCI(resp.Data)
		if err != nil {
			// A malformed FCI disqualifies this application only.
			fmt.Printf("(!) AID %X returned an unusable FCI: %v\n", aid, err)
			continue
		}

		fmt.Printf("   [+] Candidate: %X (%s)\n", c.AID(), c.DisplayName())
		if err := list.Push(c); err != nil {
			log.Printf("(!) Failed to collect candidate: %v", err)
		}
	}

	return list
}

func printCandidates(list *emv.CandidateList, confirmationNeeded bool) {
	fmt.Println("\n=============================================")
	fmt.Printf(" Step 3: CANDIDATES IN SELECTION ORDER (%d)\n", list.Len())
	fmt.Println("=============================================")

	if list.IsEmpty() {
		fmt.Println(">> No mutually supported application found.")
		return
	}

	rank := 1
	for {
		c := list.Pop()
		if c == nil {
			break
		}

		prio := "unspecified"
		if c.Priority() != 0 {
			prio = fmt.Sprintf("%d", c.Priority())
		}
		fmt.Printf(" %2d. %-32s AID %X | priority %s | confirm %v\n",
			rank, c.DisplayName(), c.AID(), prio, c.ConfirmationRequired())
		rank++

		if err := c.Release(); err != nil {
			log.Printf("(!) Failed to release candidate: %v", err)
		}
	}

	if confirmationNeeded {
		fmt.Println("\n>> Cardholder confirmation is REQUIRED before selection.")
	} else {
		fmt.Println("\n>> The single candidate may be selected without confirmation.")
	}
}
