// memocli drives the memo program family against a live cluster: one-time
// stats setup, gated burns, profile management and record lookups.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"memocore/client"
	"memocore/envelope"
	"memocore/memoburn"
	"memocore/memoprofile"
)

// minBurnMessageLen keeps the base64 envelope above the minimum memo length.
const minBurnMessageLen = 35

func main() {
	rpcURL := flag.String("rpc", rpc.DevNet_RPC, "RPC endpoint")
	network := flag.String("network", "devnet", "network for explorer links (devnet, mainnet, localhost)")
	keypairPath := flag.String("keypair", os.Getenv("SOLANA_KEYPAIR"), "path to the signer keypair file")
	tokenAccount := flag.String("token-account", "", "signer's MEMO token account")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
	}

	ctx := context.Background()
	rc := client.NewRPCClient(*rpcURL, *network)

	switch args[0] {
	case "init-stats":
		signer := mustKeypair(*keypairPath)
		ix, err := memoburn.NewInitializeUserGlobalBurnStatsInstruction(signer.PublicKey())
		if err != nil {
			log.Fatal(err)
		}
		submit(ctx, rc, signer, ix)

	case "burn":
		if len(args) < 2 {
			usage()
		}
		signer := mustKeypair(*keypairPath)
		amount, err := client.ParseTokenAmount(args[1])
		if err != nil {
			log.Fatal(err)
		}
		message := ""
		if len(args) > 2 {
			message = args[2]
		}
		// the burn program enforces a minimum memo length
		if len(message) < minBurnMessageLen {
			message += strings.Repeat(" ", minBurnMessageLen-len(message))
		}
		memoIx, err := client.NewBurnMemoInstruction(amount, []byte(message))
		if err != nil {
			log.Fatal(err)
		}
		burnIx, err := memoburn.NewProcessBurnInstruction(
			signer.PublicKey(), mustPubkey(*tokenAccount, "-token-account"), amount)
		if err != nil {
			log.Fatal(err)
		}
		submit(ctx, rc, signer,
			client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit), memoIx, burnIx)

	case "create-profile":
		if len(args) < 2 {
			usage()
		}
		signer := mustKeypair(*keypairPath)
		image := ""
		if len(args) > 2 {
			image = args[2]
		}
		memoIx, err := client.NewBurnMemoInstruction(memoprofile.MinProfileBurnAmount,
			&envelope.ProfileCreationData{
				Version:    envelope.BurnMemoVersion,
				Category:   memoprofile.Category,
				Operation:  memoprofile.OpCreateProfile,
				UserPubkey: signer.PublicKey().String(),
				Username:   args[1],
				Image:      image,
			})
		if err != nil {
			log.Fatal(err)
		}
		createIx, err := memoprofile.NewCreateProfileInstruction(
			signer.PublicKey(), mustPubkey(*tokenAccount, "-token-account"),
			memoprofile.MinProfileBurnAmount)
		if err != nil {
			log.Fatal(err)
		}
		submit(ctx, rc, signer,
			client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit), memoIx, createIx)

	case "stats":
		if len(args) < 2 {
			usage()
		}
		stats, err := rc.GetUserBurnStats(ctx, mustPubkey(args[1], "user"))
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("user:         %s\n", stats.User)
		fmt.Printf("total burned: %s MEMO\n", client.FormatTokenAmount(stats.TotalBurned))
		fmt.Printf("burn count:   %d\n", stats.BurnCount)
		fmt.Printf("last burn:    %d\n", stats.LastBurnTime)

	case "profile":
		if len(args) < 2 {
			usage()
		}
		profile, err := rc.GetProfile(ctx, mustPubkey(args[1], "user"))
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("user:     %s\n", profile.Pubkey)
		fmt.Printf("username: %s\n", profile.Username)
		fmt.Printf("image:    %s\n", profile.Image)
		fmt.Printf("burned:   %s MEMO\n", client.FormatTokenAmount(profile.BurnedAmount))
		if profile.AboutMe != nil {
			fmt.Printf("about:    %s\n", *profile.AboutMe)
		}
		if profile.URL != nil {
			fmt.Printf("url:      %s\n", *profile.URL)
		}

	case "post":
		lookupByID(ctx, args, func(id uint64) (interface{}, error) { return rc.GetPost(ctx, id) })

	case "project":
		lookupByID(ctx, args, func(id uint64) (interface{}, error) { return rc.GetProject(ctx, id) })

	case "group":
		lookupByID(ctx, args, func(id uint64) (interface{}, error) { return rc.GetChatGroup(ctx, id) })

	case "leaderboard":
		leaderboard, err := rc.GetBurnLeaderboard(ctx)
		if err != nil {
			log.Fatal(err)
		}
		entries := leaderboard.Entries
		sort.Slice(entries, func(i, j int) bool { return entries[i].BurnedAmount > entries[j].BurnedAmount })
		for rank, entry := range entries {
			fmt.Printf("%3d. project %-6d %s MEMO\n",
				rank+1, entry.ProjectID, client.FormatTokenAmount(entry.BurnedAmount))
		}

	default:
		usage()
	}
}

func submit(ctx context.Context, rc *client.RPCClient, signer solana.PrivateKey, ixs ...solana.Instruction) {
	result, err := rc.SubmitTransaction(ctx, signer, ixs...)
	if err != nil {
		log.Fatalf("%s", client.ParseProgramError(err))
	}
	log.Printf("submitted: %s", result.Signature)
	log.Printf("explorer:  %s", result.ExplorerURL)
	if err := rc.WaitForConfirmation(ctx, result.Signature, 60); err != nil {
		log.Fatalf("%s", client.ParseProgramError(err))
	}
	log.Printf("confirmed")
}

func lookupByID(_ context.Context, args []string, fetch func(uint64) (interface{}, error)) {
	if len(args) < 2 {
		usage()
	}
	var id uint64
	if _, err := fmt.Sscanf(args[1], "%d", &id); err != nil {
		log.Fatalf("invalid id %q", args[1])
	}
	record, err := fetch(id)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%+v\n", record)
}

func mustKeypair(path string) solana.PrivateKey {
	if path == "" {
		log.Fatal("signer keypair required: pass -keypair or set SOLANA_KEYPAIR")
	}
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		log.Fatalf("failed to load keypair: %v", err)
	}
	return key
}

func mustPubkey(s, name string) solana.PublicKey {
	if s == "" {
		log.Fatalf("%s is required", name)
	}
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		log.Fatalf("invalid %s: %v", name, err)
	}
	return key
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: memocli [flags] <command> [args]

commands:
  init-stats                     one-time burn stats setup for the signer
  burn <tokens> [message]        burn whole MEMO tokens with a memo message
  create-profile <name> [image]  create the signer's profile (burns 420 MEMO)
  stats <pubkey>                 show a user's lifetime burn stats
  profile <pubkey>               show a user's profile
  post <id>                      show a forum post
  project <id>                   show a project
  group <id>                     show a chat group
  leaderboard                    show the project burn leaderboard

flags:
`)
	flag.PrintDefaults()
	os.Exit(2)
}
