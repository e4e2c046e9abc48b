package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Mês", want: "mes"},
		{in: "  MES ", want: "mes"},
		{in: "Conta Saída", want: "conta saida"},
		{in: "Estimated-Amount", want: "estimated amount"},
		{in: "ESTIMATED_AMOUNT", want: "estimated amount"},
		{in: "estimated \t  amount", want: "estimated amount"},
		{in: "Transações", want: "transacoes"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}
