package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libgamma-go/admin"
	"github.com/bitfsorg/libgamma-go/amm"
	"github.com/bitfsorg/libgamma-go/config"
	"github.com/bitfsorg/libgamma-go/keystore"
	"github.com/bitfsorg/libgamma-go/pda"
	"github.com/bitfsorg/libgamma-go/store"
)

const testPassword = "correct horse"

// testEnv writes a config rooted in a temp dir, with a bolt store and an
// administrator key saved under the data dir.
type testEnv struct {
	configPath string
	cfg        config.Config
	key        solana.PrivateKey
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	key, err := keystore.Generate()
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.DataDir = dir
	cfg.LogFile = filepath.Join(dir, "ammadmin.log")
	cfg.LogFormat = "json"
	cfg.AdminKey = key.PublicKey().String()
	require.NoError(t, keystore.Save(cfg.KeyPath(), key, testPassword))

	path := config.ConfigPath(dir)
	require.NoError(t, config.SaveConfig(path, cfg))

	t.Setenv(PasswordEnv, testPassword)
	return &testEnv{configPath: path, cfg: cfg, key: key}
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func decodeResult(t *testing.T, out string) *admin.Result {
	t.Helper()
	var resp struct {
		Status string        `json:"status"`
		Data   *admin.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

var exampleCreate = []string{
	"create", "--index", "0",
	"--trade-fee-rate", "2500",
	"--protocol-fee-rate", "120000",
	"--fund-fee-rate", "40000",
	"--create-pool-fee", "150000000",
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "ammadmin", cmd.Use)

	for _, name := range []string{"keygen", "derive", "create", "update", "show", "list"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "--format", "yaml", "derive")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestDerive(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "--format", "json", "derive", "--index", "7")
	require.NoError(t, err)

	var resp struct {
		Data DeriveResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	programID, err := env.cfg.Program()
	require.NoError(t, err)
	addr, bump, err := pda.DeriveAmmConfigAddress(programID, 7)
	require.NoError(t, err)
	assert.Equal(t, addr.String(), resp.Data.Address)
	assert.Equal(t, bump, resp.Data.Bump)
}

func TestCreateShowList(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, append([]string{"--format", "json"}, exampleCreate...)...)
	require.NoError(t, err)
	res := decodeResult(t, out)
	assert.Equal(t, uint64(2500), res.Config.TradeFeeRate)
	assert.Equal(t, env.key.PublicKey(), res.Config.ProtocolOwner)
	assert.Equal(t, env.key.PublicKey(), res.Config.FundOwner)

	out, err = env.run(t, "show", "--index", "0")
	require.NoError(t, err)
	assert.Contains(t, out, res.Address.String())
	assert.Contains(t, out, "150000000")

	_, err = env.run(t, "create", "--index", "3", "--trade-fee-rate", "100")
	require.NoError(t, err)

	out, err = env.run(t, "--format", "json", "list")
	require.NoError(t, err)
	var list struct {
		Data []*admin.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list.Data, 2)
	assert.Equal(t, uint16(0), list.Data[0].Config.Index)
	assert.Equal(t, uint16(3), list.Data[1].Config.Index)
}

func TestCreate_InvalidRatesStoreNothing(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "create", "--index", "1",
		"--trade-fee-rate", "900000", "--protocol-fee-rate", "200000")
	assert.ErrorIs(t, err, amm.ErrInvalidRate)

	_, err = env.run(t, "show", "--index", "1")
	assert.ErrorIs(t, err, store.ErrNotInitialized)
}

func TestCreate_Twice(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, exampleCreate...)
	require.NoError(t, err)
	_, err = env.run(t, exampleCreate...)
	assert.ErrorIs(t, err, store.ErrAlreadyInitialized)
}

func TestCreate_NonAdminKey(t *testing.T) {
	env := newTestEnv(t)

	other, err := keystore.Generate()
	require.NoError(t, err)
	env.cfg.AdminKey = other.PublicKey().String()
	require.NoError(t, config.SaveConfig(env.configPath, env.cfg))

	_, err = env.run(t, exampleCreate...)
	assert.ErrorIs(t, err, admin.ErrUnauthorized)
}

func TestCreate_NoPassword(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv(PasswordEnv, "")
	_, err := env.run(t, exampleCreate...)
	assert.ErrorIs(t, err, ErrNoPassword)
}

func TestCreate_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv(PasswordEnv, "wrong")
	_, err := env.run(t, exampleCreate...)
	assert.ErrorIs(t, err, keystore.ErrDecryptionFailed)
}

func TestUpdate(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, exampleCreate...)
	require.NoError(t, err)

	newOwner, err := keystore.Generate()
	require.NoError(t, err)

	out, err := env.run(t, "--format", "json", "update", "--index", "0",
		"--param", "protocol_owner", "--identity", newOwner.PublicKey().String())
	require.NoError(t, err)
	res := decodeResult(t, out)
	assert.Equal(t, newOwner.PublicKey(), res.Config.ProtocolOwner)

	_, err = env.run(t, "update", "--index", "0", "--param", "fund_fee_rate", "--value", "990000")
	assert.ErrorIs(t, err, amm.ErrInvalidRate)

	_, err = env.run(t, "update", "--index", "0", "--param", "bogus")
	assert.ErrorIs(t, err, amm.ErrInvalidParam)
}

func TestKeygen(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "new.key")

	out, err := env.run(t, "--format", "json", "keygen", "--out", path)
	require.NoError(t, err)

	var resp struct {
		Data KeygenResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, path, resp.Data.Path)

	key, err := keystore.Load(path, testPassword)
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey().String(), resp.Data.PublicKey)

	_, err = env.run(t, "keygen", "--out", path)
	assert.ErrorIs(t, err, keystore.ErrKeyExists)
}

func TestEnvOverridesBackend(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("GAMMA_BACKEND", config.BackendMemory)

	_, err := env.run(t, exampleCreate...)
	require.NoError(t, err)

	// A fresh memory store per invocation: nothing persisted to bolt.
	_, err = os.Stat(env.cfg.BoltPath())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMissingConfigFile(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent"), "derive"})
	assert.ErrorIs(t, cmd.Execute(), config.ErrConfigNotFound)
}

func ExampleOutputFormatter_Success() {
	f := &OutputFormatter{Format: "json", Writer: os.Stdout}
	_ = f.Success(DeriveResult{Index: 1, Address: "addr", Bump: 255}, nil)
	f.Format = "text"
	_ = f.Success(nil, func(w io.Writer) { fmt.Fprintln(w, "plain") })
	// Output:
	// {"status":"ok","data":{"index":1,"address":"addr","bump":255}}
	// plain
}
