package crypto

import (
	"encoding/hex"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

type keypairFile struct {
	Address    string `json:"address"`
	PrivateKey string `json:"pk"`
}

// LoadKeypair reads a keypair file written by StoreKeypair or creates and
// persists a fresh one when the file does not exist yet.
func LoadKeypair(path string) (*PrivateKey, error) {
	bytes, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		log.Infof("No keypair at %v, generating a new one", path)
		pk, e := GenerateKey()
		if e != nil {
			return nil, e
		}
		if e := StoreKeypair(path, pk); e != nil {
			return nil, e
		}
		return pk, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "can't read keypair file %v", path)
	}

	v := &keypairFile{}
	if err := json.Unmarshal(bytes, v); err != nil {
		return nil, errors.Wrapf(err, "can't parse keypair file %v", path)
	}
	decoded, err := hex.DecodeString(v.PrivateKey)
	if err != nil {
		return nil, errors.Wrapf(err, "can't decode key from hex in %v", path)
	}
	return PrivateKeyFromBytes(decoded)
}

func StoreKeypair(path string, pk *PrivateKey) error {
	v := &keypairFile{
		Address:    pk.PublicKey().Address().String(),
		PrivateKey: hex.EncodeToString(pk.V()),
	}
	marshal, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return errors.Wrap(err, "can't marshal keypair")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrapf(err, "can't create keypair dir for %v", path)
	}
	if err := ioutil.WriteFile(path, marshal, 0600); err != nil {
		return errors.Wrapf(err, "can't write keypair file %v", path)
	}
	return nil
}
