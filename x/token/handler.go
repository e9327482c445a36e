package token

import (
	"context"

	"github.com/gagliardetto/solana-go"
	tokenprog "github.com/gagliardetto/solana-go/programs/token"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

// Program is the token program. Register it under solana.TokenProgramID.
type Program struct{}

var _ swap.Program = Program{}

// RegisterProgram registers the token program under its well known id.
func RegisterProgram(r swap.Registry) {
	r.Register(solana.TokenProgramID, Program{})
}

// Process implements swap.Program.
func (Program) Process(ctx context.Context, rt swap.Invoker, programID solana.PublicKey, accounts []*swap.AccountInfo, data []byte) error {
	ix, err := DecodeInstruction(data)
	if err != nil {
		return err
	}
	log := swap.GetLogger(ctx)
	switch ix := ix.(type) {
	case *tokenprog.InitializeMint:
		log.Debug("Instruction: InitializeMint", "decimals", *ix.Decimals)
		return initializeMint(rt, programID, ix, accounts)
	case *tokenprog.InitializeAccount:
		log.Debug("Instruction: InitializeAccount")
		return initializeAccount(rt, programID, accounts)
	case *tokenprog.Transfer:
		log.Debug("Instruction: Transfer", "amount", *ix.Amount)
		return transfer(programID, *ix.Amount, accounts)
	case *tokenprog.SetAuthority:
		log.Debug("Instruction: SetAuthority", "type", AuthorityName(*ix.AuthorityType))
		return setAuthority(programID, *ix.AuthorityType, ix.NewAuthority, accounts)
	case *tokenprog.MintTo:
		log.Debug("Instruction: MintTo", "amount", *ix.Amount)
		return mintTo(programID, *ix.Amount, accounts)
	case *tokenprog.CloseAccount:
		log.Debug("Instruction: CloseAccount")
		return closeAccount(programID, accounts)
	default:
		return errors.Wrapf(errors.ErrHuman, "unhandled instruction %T", ix)
	}
}

func initializeMint(rt swap.Invoker, programID solana.PublicKey, ix *tokenprog.InitializeMint, accounts []*swap.AccountInfo) error {
	if err := swap.RequireAccounts(accounts, 2); err != nil {
		return err
	}
	mintInfo, rent := accounts[0], accounts[1]
	if err := requireRentSysvar(rent); err != nil {
		return err
	}
	if err := requireOwnedWritable(programID, mintInfo); err != nil {
		return err
	}
	mint, err := UnpackMint(mintInfo.Data)
	if err != nil {
		return err
	}
	if mint.IsInitialized {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "mint %s", mintInfo.Key)
	}
	if !rt.Rent().IsExempt(mintInfo.Lamports, len(mintInfo.Data)) {
		return errors.Wrapf(errors.ErrNotRentExempt, "mint %s", mintInfo.Key)
	}
	authority := *ix.MintAuthority
	mint.MintAuthority = &authority
	mint.Decimals = *ix.Decimals
	mint.IsInitialized = true
	mint.FreezeAuthority = ix.FreezeAuthority
	return storeMint(mintInfo, mint)
}

func initializeAccount(rt swap.Invoker, programID solana.PublicKey, accounts []*swap.AccountInfo) error {
	if err := swap.RequireAccounts(accounts, 4); err != nil {
		return err
	}
	accInfo, mintInfo, owner, rent := accounts[0], accounts[1], accounts[2], accounts[3]
	if err := requireRentSysvar(rent); err != nil {
		return err
	}
	if err := requireOwnedWritable(programID, accInfo); err != nil {
		return err
	}
	acc, err := UnpackAccount(accInfo.Data)
	if err != nil {
		return err
	}
	if IsInitialized(acc) {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "token account %s", accInfo.Key)
	}
	if !rt.Rent().IsExempt(accInfo.Lamports, len(accInfo.Data)) {
		return errors.Wrapf(errors.ErrNotRentExempt, "token account %s", accInfo.Key)
	}
	if _, err := loadMint(programID, mintInfo); err != nil {
		return err
	}
	acc.Mint = mintInfo.Key
	acc.Owner = owner.Key
	acc.State = tokenprog.Initialized
	return storeAccount(accInfo, acc)
}

func transfer(programID solana.PublicKey, amount uint64, accounts []*swap.AccountInfo) error {
	if err := swap.RequireAccounts(accounts, 3); err != nil {
		return err
	}
	srcInfo, dstInfo, authority := accounts[0], accounts[1], accounts[2]
	src, err := loadWritableAccount(programID, srcInfo)
	if err != nil {
		return err
	}
	dst, err := loadWritableAccount(programID, dstInfo)
	if err != nil {
		return err
	}
	if src.State == tokenprog.Frozen || dst.State == tokenprog.Frozen {
		return errors.Wrap(ErrAccountFrozen, "transfer")
	}
	if !src.Mint.Equals(dst.Mint) {
		return errors.Wrapf(ErrMintMismatch, "%s holds %s, %s holds %s", srcInfo.Key, src.Mint, dstInfo.Key, dst.Mint)
	}
	if err := requireAuthority(src.Owner, authority); err != nil {
		return err
	}
	if src.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientFunds, "%s holds %d, need %d", srcInfo.Key, src.Amount, amount)
	}
	if srcInfo.Key.Equals(dstInfo.Key) {
		return nil
	}
	if dst.Amount+amount < dst.Amount {
		return errors.Wrapf(errors.ErrOverflow, "credit %s", dstInfo.Key)
	}
	src.Amount -= amount
	dst.Amount += amount
	if err := storeAccount(srcInfo, src); err != nil {
		return err
	}
	return storeAccount(dstInfo, dst)
}

func setAuthority(programID solana.PublicKey, typ tokenprog.AuthorityType, newAuthority *solana.PublicKey, accounts []*swap.AccountInfo) error {
	if err := swap.RequireAccounts(accounts, 2); err != nil {
		return err
	}
	target, authority := accounts[0], accounts[1]
	if err := requireOwnedWritable(programID, target); err != nil {
		return err
	}

	switch len(target.Data) {
	case AccountSize:
		acc, err := loadAccount(programID, target)
		if err != nil {
			return err
		}
		if acc.State == tokenprog.Frozen {
			return errors.Wrapf(ErrAccountFrozen, "token account %s", target.Key)
		}
		switch typ {
		case tokenprog.AuthorityAccountOwner:
			if err := requireAuthority(acc.Owner, authority); err != nil {
				return err
			}
			if newAuthority == nil {
				return errors.Wrap(errors.ErrInput, "account owner cannot be removed")
			}
			acc.Owner = *newAuthority
			acc.Delegate = nil
			acc.DelegatedAmount = 0
		case tokenprog.AuthorityCloseAccount:
			current := acc.Owner
			if acc.CloseAuthority != nil {
				current = *acc.CloseAuthority
			}
			if err := requireAuthority(current, authority); err != nil {
				return err
			}
			acc.CloseAuthority = newAuthority
		default:
			return errors.Wrapf(ErrAuthorityType, "%s on token account", AuthorityName(typ))
		}
		return storeAccount(target, acc)
	case MintSize:
		mint, err := loadMint(programID, target)
		if err != nil {
			return err
		}
		switch typ {
		case tokenprog.AuthorityMintTokens:
			if mint.MintAuthority == nil {
				return errors.Wrapf(ErrFixedSupply, "mint %s", target.Key)
			}
			if err := requireAuthority(*mint.MintAuthority, authority); err != nil {
				return err
			}
			mint.MintAuthority = newAuthority
		case tokenprog.AuthorityFreezeAccount:
			if mint.FreezeAuthority == nil {
				return errors.Wrapf(errors.ErrUnauthorized, "mint %s cannot freeze", target.Key)
			}
			if err := requireAuthority(*mint.FreezeAuthority, authority); err != nil {
				return err
			}
			mint.FreezeAuthority = newAuthority
		default:
			return errors.Wrapf(ErrAuthorityType, "%s on mint", AuthorityName(typ))
		}
		return storeMint(target, mint)
	default:
		return errors.Wrapf(errors.ErrAccountData, "%s is neither a mint nor a token account", target.Key)
	}
}

func mintTo(programID solana.PublicKey, amount uint64, accounts []*swap.AccountInfo) error {
	if err := swap.RequireAccounts(accounts, 3); err != nil {
		return err
	}
	mintInfo, dstInfo, authority := accounts[0], accounts[1], accounts[2]
	if err := swap.RequireWritable(mintInfo); err != nil {
		return err
	}
	mint, err := loadMint(programID, mintInfo)
	if err != nil {
		return err
	}
	dst, err := loadWritableAccount(programID, dstInfo)
	if err != nil {
		return err
	}
	if dst.State == tokenprog.Frozen {
		return errors.Wrapf(ErrAccountFrozen, "token account %s", dstInfo.Key)
	}
	if !dst.Mint.Equals(mintInfo.Key) {
		return errors.Wrapf(ErrMintMismatch, "%s holds %s", dstInfo.Key, dst.Mint)
	}
	if mint.MintAuthority == nil {
		return errors.Wrapf(ErrFixedSupply, "mint %s", mintInfo.Key)
	}
	if err := requireAuthority(*mint.MintAuthority, authority); err != nil {
		return err
	}
	if mint.Supply+amount < mint.Supply || dst.Amount+amount < dst.Amount {
		return errors.Wrapf(errors.ErrOverflow, "mint %d", amount)
	}
	mint.Supply += amount
	dst.Amount += amount
	if err := storeMint(mintInfo, mint); err != nil {
		return err
	}
	return storeAccount(dstInfo, dst)
}

func closeAccount(programID solana.PublicKey, accounts []*swap.AccountInfo) error {
	if err := swap.RequireAccounts(accounts, 3); err != nil {
		return err
	}
	accInfo, dstInfo, authority := accounts[0], accounts[1], accounts[2]
	if accInfo.Key.Equals(dstInfo.Key) {
		return errors.Wrap(errors.ErrInput, "cannot close an account into itself")
	}
	acc, err := loadWritableAccount(programID, accInfo)
	if err != nil {
		return err
	}
	if err := swap.RequireWritable(dstInfo); err != nil {
		return err
	}
	if acc.IsNative == nil && acc.Amount != 0 {
		return errors.Wrapf(ErrNonNativeHasBalance, "%s holds %d", accInfo.Key, acc.Amount)
	}
	current := acc.Owner
	if acc.CloseAuthority != nil {
		current = *acc.CloseAuthority
	}
	if err := requireAuthority(current, authority); err != nil {
		return err
	}
	if dstInfo.Lamports+accInfo.Lamports < dstInfo.Lamports {
		return errors.Wrapf(errors.ErrOverflow, "credit %s", dstInfo.Key)
	}
	dstInfo.Lamports += accInfo.Lamports
	accInfo.Lamports = 0
	for i := range accInfo.Data {
		accInfo.Data[i] = 0
	}
	return nil
}

func requireRentSysvar(a *swap.AccountInfo) error {
	if !a.Key.Equals(solana.SysVarRentPubkey) {
		return errors.Wrapf(errors.ErrInput, "%s is not the rent sysvar", a.Key)
	}
	return nil
}

func requireOwnedWritable(programID solana.PublicKey, a *swap.AccountInfo) error {
	if err := swap.RequireWritable(a); err != nil {
		return err
	}
	if !a.Owner.Equals(programID) {
		return errors.Wrapf(errors.ErrOwner, "%s is owned by %s", a.Key, a.Owner)
	}
	return nil
}

// requireAuthority ensures the authority account is the expected one and
// signed the instruction.
func requireAuthority(want solana.PublicKey, authority *swap.AccountInfo) error {
	if !want.Equals(authority.Key) {
		return errors.Wrapf(ErrOwnerMismatch, "want %s, got %s", want, authority.Key)
	}
	return swap.RequireSigner(authority)
}

func loadMint(programID solana.PublicKey, a *swap.AccountInfo) (*Mint, error) {
	if !a.Owner.Equals(programID) {
		return nil, errors.Wrapf(errors.ErrOwner, "mint %s is owned by %s", a.Key, a.Owner)
	}
	mint, err := UnpackMint(a.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "mint %s", a.Key)
	}
	if !mint.IsInitialized {
		return nil, errors.Wrapf(errors.ErrUninitialized, "mint %s", a.Key)
	}
	return mint, nil
}

func loadAccount(programID solana.PublicKey, a *swap.AccountInfo) (*Account, error) {
	if !a.Owner.Equals(programID) {
		return nil, errors.Wrapf(errors.ErrOwner, "token account %s is owned by %s", a.Key, a.Owner)
	}
	acc, err := UnpackAccount(a.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "token account %s", a.Key)
	}
	if !IsInitialized(acc) {
		return nil, errors.Wrapf(errors.ErrUninitialized, "token account %s", a.Key)
	}
	return acc, nil
}

func loadWritableAccount(programID solana.PublicKey, a *swap.AccountInfo) (*Account, error) {
	if err := swap.RequireWritable(a); err != nil {
		return nil, err
	}
	return loadAccount(programID, a)
}

func storeMint(a *swap.AccountInfo, m *Mint) error {
	raw, err := MarshalMint(m)
	if err != nil {
		return err
	}
	copy(a.Data, raw)
	return nil
}

func storeAccount(a *swap.AccountInfo, acc *Account) error {
	raw, err := MarshalAccount(acc)
	if err != nil {
		return err
	}
	copy(a.Data, raw)
	return nil
}
