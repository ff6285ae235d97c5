package contract

// BuiltinURWA20 is the ID of the confidential uRWA20 token interface.
const BuiltinURWA20 = "urwa20"

// urwa20 is the confidential real-world-asset token deployed on Sapphire.
// Balances and transfer details are only readable with a SIWE session token;
// every state change emits one of the Encrypted* events whose payload only
// the contract can decrypt.
func init() {
	RegisterBuiltin(BuiltinKind{
		ID:          BuiltinURWA20,
		Name:        "uRWA20 Confidential Token",
		Description: "Confidential ERC-20 with SIWE sessions, encrypted events and auditor permissions.",
		Interface:   MustParseInterface([]byte(urwa20ABI)),
	})
}

const urwa20ABI = `[
  {"type":"function","name":"name","inputs":[],"outputs":[{"name":"","type":"string"}],"stateMutability":"view"},
  {"type":"function","name":"symbol","inputs":[],"outputs":[{"name":"","type":"string"}],"stateMutability":"view"},
  {"type":"function","name":"decimals","inputs":[],"outputs":[{"name":"","type":"uint8"}],"stateMutability":"view"},
  {"type":"function","name":"totalSupply","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
  {"type":"function","name":"balanceOf","inputs":[{"name":"account","type":"address"},{"name":"token","type":"bytes"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
  {"type":"function","name":"allowance","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"},{"name":"token","type":"bytes"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
  {"type":"function","name":"isUserAllowed","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"},
  {"type":"function","name":"canTransfer","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"},
  {"type":"function","name":"domain","inputs":[],"outputs":[{"name":"","type":"string"}],"stateMutability":"view"},
  {"type":"function","name":"login","inputs":[{"name":"siweMsg","type":"string"},{"name":"sig","type":"tuple","internalType":"struct SignatureRSV","components":[{"name":"r","type":"bytes32"},{"name":"s","type":"bytes32"},{"name":"v","type":"uint256"}]}],"outputs":[{"name":"","type":"bytes"}],"stateMutability":"view"},
  {"type":"function","name":"checkAuditorPermission","inputs":[{"name":"auditor","type":"address"},{"name":"target","type":"address"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"},
  {"type":"function","name":"auditorPermissions","inputs":[{"name":"auditor","type":"address"}],"outputs":[{"name":"expiryTime","type":"uint256"},{"name":"hasFullAccess","type":"bool"}],"stateMutability":"view"},
  {"type":"function","name":"viewLastDecryptedData","inputs":[{"name":"token","type":"bytes"}],"outputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"},{"name":"action","type":"string"}],"stateMutability":"view"},

  {"type":"function","name":"transfer","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable"},
  {"type":"function","name":"approve","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable"},
  {"type":"function","name":"transferFrom","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable"},
  {"type":"function","name":"mint","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"forceTransfer","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"setFrozen","inputs":[{"name":"user","type":"address"},{"name":"frozen","type":"bool"}],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"changeWhitelist","inputs":[{"name":"account","type":"address"},{"name":"status","type":"bool"}],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"processDecryption","inputs":[{"name":"encryptedData","type":"bytes"}],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"clearLastDecryptedData","inputs":[],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"grantAuditorPermission","inputs":[{"name":"auditor","type":"address"},{"name":"duration","type":"uint256"},{"name":"fullAccess","type":"bool"},{"name":"allowedAddresses","type":"address[]"}],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"revokeAuditorPermission","inputs":[{"name":"auditor","type":"address"}],"outputs":[],"stateMutability":"nonpayable"},

  {"type":"event","name":"EncryptedTransfer","inputs":[{"name":"encryptedData","type":"bytes","indexed":false}],"anonymous":false},
  {"type":"event","name":"EncryptedApproval","inputs":[{"name":"encryptedData","type":"bytes","indexed":false}],"anonymous":false},
  {"type":"event","name":"EncryptedForcedTransfer","inputs":[{"name":"encryptedData","type":"bytes","indexed":false}],"anonymous":false},
  {"type":"event","name":"EncryptedFrozen","inputs":[{"name":"encryptedData","type":"bytes","indexed":false}],"anonymous":false},
  {"type":"event","name":"EncryptedWhitelisted","inputs":[{"name":"encryptedData","type":"bytes","indexed":false}],"anonymous":false},
  {"type":"event","name":"AuditorPermissionGranted","inputs":[{"name":"auditor","type":"address","indexed":true},{"name":"expiryTime","type":"uint256","indexed":false},{"name":"fullAccess","type":"bool","indexed":false}],"anonymous":false},
  {"type":"event","name":"AuditorPermissionRevoked","inputs":[{"name":"auditor","type":"address","indexed":true}],"anonymous":false}
]`
