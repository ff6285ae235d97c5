package contract

// testABI exercises every parameter kind plus an overload, auth-gated reads
// and a mix of events.
const testABI = `[
  {"type":"function","name":"balanceOf","inputs":[{"name":"account","type":"address"},{"name":"token","type":"bytes"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
  {"type":"function","name":"allowanceOf","inputs":[{"name":"owner","type":"address"},{"name":"authToken","type":"bytes"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
  {"type":"function","name":"hashOf","inputs":[{"name":"token","type":"bytes32"}],"outputs":[{"name":"","type":"bytes32"}],"stateMutability":"pure"},
  {"type":"function","name":"transfer","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable"},
  {"type":"function","name":"decimals","inputs":[],"outputs":[{"name":"","type":"uint8"}],"stateMutability":"view"},
  {"type":"function","name":"deposit","inputs":[],"outputs":[],"stateMutability":"payable"},
  {"type":"function","name":"setLimits","inputs":[{"name":"small","type":"uint8"},{"name":"big","type":"uint128"},{"name":"delta","type":"int64"},{"name":"flag","type":"bool"}],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"store","inputs":[{"name":"data","type":"bytes"},{"name":"tag","type":"bytes4"},{"name":"note","type":"string"}],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"batch","inputs":[{"name":"recipients","type":"address[]"},{"name":"amounts","type":"uint256[2]"}],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"login","inputs":[{"name":"siweMsg","type":"string"},{"name":"sig","type":"tuple","components":[{"name":"r","type":"bytes32"},{"name":"s","type":"bytes32"},{"name":"v","type":"uint256"}]}],"outputs":[{"name":"","type":"bytes"}],"stateMutability":"view"},
  {"type":"function","name":"ping","inputs":[],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"ping","inputs":[{"name":"n","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"info","inputs":[],"outputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"},{"name":"action","type":"string"}],"stateMutability":"view"},
  {"type":"event","name":"EncryptedTransfer","inputs":[{"name":"encryptedData","type":"bytes","indexed":false}],"anonymous":false},
  {"type":"event","name":"Transfer","inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}],"anonymous":false},
  {"type":"constructor","inputs":[{"name":"supply","type":"uint256"}],"stateMutability":"nonpayable"}
]`
