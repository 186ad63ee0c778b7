package verifier

import "math/big"

// modInverse returns a^-1 mod M via Fermat's little theorem, a^(M-2) mod
// M. M must be prime.
func modInverse(a, M *big.Int) *big.Int {
	exp := new(big.Int).Sub(M, big.NewInt(2))
	return new(big.Int).Exp(a, exp, M)
}

// lagrangeAtZero interpolates the degree-(len(ys)-1) polynomial through
// points (1, ys[0]), (2, ys[1]), ..., (len(ys), ys[len(ys)-1]) and
// evaluates it at x=0, all arithmetic mod M (M prime).
func lagrangeAtZero(ys []*big.Int, M *big.Int) *big.Int {
	n := len(ys)
	result := big.NewInt(0)
	for i := 0; i < n; i++ {
		xi := big.NewInt(int64(i + 1))
		num := big.NewInt(1)
		den := big.NewInt(1)
		for k := 0; k < n; k++ {
			if k == i {
				continue
			}
			xk := big.NewInt(int64(k + 1))
			// num *= (0 - xk)
			num.Mul(num, new(big.Int).Mod(new(big.Int).Neg(xk), M))
			num.Mod(num, M)
			// den *= (xi - xk)
			diff := new(big.Int).Mod(new(big.Int).Sub(xi, xk), M)
			den.Mul(den, diff)
			den.Mod(den, M)
		}
		term := new(big.Int).Mul(ys[i], num)
		term.Mul(term, modInverse(den, M))
		term.Mod(term, M)
		result.Add(result, term)
		result.Mod(result, M)
	}
	return result
}
